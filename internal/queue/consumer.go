package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// StartTableEventsConsumer connects to RabbitMQ, declares the durable
// table.events queue and consumes it, appending each event as a single
// line to logs/table-events.log. It runs a reconnect loop with capped
// exponential backoff and never returns under normal operation;
// processing errors are logged and the offending message rejected so the
// server keeps serving requests.
func StartTableEventsConsumer(url string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logrus.WithError(err).Warnf("table-events consumer: dial failed, retrying in %s", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			logrus.WithError(err).Warn("table-events consumer: consume loop ended, reconnecting")
		}
		_ = conn.Close()
		time.Sleep(2 * time.Second)
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(TableEventsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(TableEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := recordEvent(d.Body); err != nil {
			logrus.WithError(err).Error("table-events consumer: record failed")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

// recordEvent appends one formatted line per event to the log file.
func recordEvent(body []byte) error {
	var event struct {
		Kind          string `json:"kind"`
		TableID       uint64 `json:"table_id"`
		TableName     string `json:"table_name"`
		ReservationID uint64 `json:"reservation_id"`
		PartyName     string `json:"party_name"`
		People        int    `json:"people"`
		OccurredAt    string `json:"occurred_at"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "table-events.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var line string
	switch event.Kind {
	case KindPartySeated:
		line = fmt.Sprintf("%s seated %s (party of %d, reservation %d) at table %q (id %d)\n",
			event.OccurredAt, event.PartyName, event.People, event.ReservationID, event.TableName, event.TableID)
	case KindVisitFinished:
		line = fmt.Sprintf("%s finished reservation %d, table %q (id %d) is free\n",
			event.OccurredAt, event.ReservationID, event.TableName, event.TableID)
	default:
		line = fmt.Sprintf("%s unknown event kind %q: %s\n", event.OccurredAt, event.Kind, string(body))
	}
	_, err = f.WriteString(line)
	return err
}
