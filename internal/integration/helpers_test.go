//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkacontainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/firmanshhh/climate-extreme-indices/internal/domain"
)

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := kafkacontainer.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafkacontainer.WithClusterID("test-cluster"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)

	return brokers[0]
}

// createTopic creates a single-partition topic, waiting for the controller
// to become available.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial kafka")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// makeStationRecord builds one synthetic station with a full baseline year
// of wet-season rainfall plus a short trailing year.
func makeStationRecord(t *testing.T, stationID string) domain.RawStationRecord {
	t.Helper()

	var days []domain.RawDay
	date := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i++ {
		depth := 0.0
		if i%3 == 0 {
			depth = float64(2 + i%40)
		}
		d := depth
		days = append(days, domain.RawDay{
			Date: date.Format("2006-01-02"),
			Rain: &d,
		})
		date = date.AddDate(0, 0, 1)
	}
	for i := 0; i < 31; i++ {
		d := 5.0
		days = append(days, domain.RawDay{
			Date: date.Format("2006-01-02"),
			Rain: &d,
		})
		date = date.AddDate(0, 0, 1)
	}

	return domain.RawStationRecord{
		StationID: stationID,
		Name:      "Integration Station",
		Days:      days,
	}
}
