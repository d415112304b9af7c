//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmanshhh/climate-extreme-indices/internal/adapter/kafka"
	"github.com/firmanshhh/climate-extreme-indices/internal/config"
	"github.com/firmanshhh/climate-extreme-indices/internal/domain"
	"github.com/firmanshhh/climate-extreme-indices/internal/observability"
	"github.com/firmanshhh/climate-extreme-indices/internal/pipeline"
)

const (
	testSourceTopic = "test-raw-station-records"
	testSinkTopic   = "test-climate-extreme-indices"
)

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       group,
		BatchFlushInterval: 5 * time.Second,
	}
}

func testIndexOptions() domain.Options {
	opts := domain.DefaultOptions()
	opts.BaselineStart = 2000
	opts.BaselineEnd = 2000
	return opts
}

// sinkMessage holds a deserialized message read from the sink topic.
type sinkMessage struct {
	Result  domain.StationResult
	Key     string
	Headers map[string]string
}

// readResult reads a single message from the sink consumer and deserializes
// it.
func readResult(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var result domain.StationResult
	require.NoError(t, json.Unmarshal(msg.Value, &result), "unmarshal sink message")

	return sinkMessage{
		Result:  result,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (extractor)
// and kafka.Writer (loader) correctly round-trip a station record.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, fmt.Sprintf("test-reader-%d", time.Now().UnixNano()))

	record := makeStationRecord(t, "96745")
	payload, err := json.Marshal(record)
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(record.StationID),
		Value: payload,
	}))

	// Extract via kafka.Reader. Retry because the consumer group may need
	// time to rebalance before partitions are assigned.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawEvent
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte(record.StationID), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")

	require.NoError(t, raw.Commit(ctx))

	// Transform into a computed result.
	transformer := pipeline.NewTransformer(testIndexOptions(), discardLogger(), observability.NewMetricsForTesting())
	out, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)

	// Load via kafka.Writer.
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputEvent{out}))

	// Read from the sink topic and verify key, headers, and rows.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	sm := readResult(ctx, t, consumer)
	assert.Equal(t, "96745", sm.Key)
	assert.Equal(t, "96745", sm.Headers["station_id"])
	_, err = time.Parse(time.RFC3339, sm.Headers["computed_at"])
	assert.NoError(t, err, "computed_at should be valid RFC3339")

	require.Len(t, sm.Result.Rainfall, 2)
	assert.Equal(t, 2000, sm.Result.Rainfall[0].Year)
	assert.Equal(t, 2001, sm.Result.Rainfall[1].Year)
	assert.Equal(t, domain.QCOK, sm.Result.Rainfall[0].QCFlag)
	assert.Equal(t, "2000-2000", sm.Result.Rainfall[0].BaselinePeriod)
	assert.Empty(t, sm.Result.Temperature, "rainfall-only record")
}

// TestPipelineEndToEnd wires the full pipeline (Reader, Transformer, Writer)
// against real Kafka and verifies every station comes out computed.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, fmt.Sprintf("test-pipeline-%d", time.Now().UnixNano()))

	// Publish several stations to the source topic.
	const stationCount = 5
	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, stationCount)
	want := make(map[string]bool, stationCount)
	for i := 0; i < stationCount; i++ {
		id := fmt.Sprintf("967%02d", 45+i)
		want[id] = true
		payload, err := json.Marshal(makeStationRecord(t, id))
		require.NoError(t, err)
		msgs = append(msgs, kafkago.Message{Key: []byte(id), Value: payload})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	// Wire up the pipeline.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	transformer := pipeline.NewTransformer(testIndexOptions(), discardLogger(), observability.NewMetricsForTesting())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make([]sinkMessage, 0, stationCount)
	for len(received) < stationCount {
		received = append(received, readResult(ctx, t, consumer))
	}

	pipelineCancel()
	require.NoError(t, <-errCh)

	require.Len(t, received, stationCount)
	for _, sm := range received {
		assert.True(t, want[sm.Result.StationID], "unexpected station %s", sm.Result.StationID)
		delete(want, sm.Result.StationID)

		assert.Equal(t, sm.Result.StationID, sm.Key)
		assert.NotEmpty(t, sm.Headers["computed_at"])
		require.Len(t, sm.Result.Rainfall, 2)
		assert.Equal(t, domain.QCOK, sm.Result.Rainfall[0].QCFlag)
		assert.False(t, sm.Result.Rainfall[0].PrecTot.IsMissing())
	}
	assert.Empty(t, want, "every published station should be computed")
}

// TestPipelinePoisonRecord verifies that an invalid message is skipped and
// the pipeline continues processing valid ones.
func TestPipelinePoisonRecord(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, fmt.Sprintf("test-poison-%d", time.Now().UnixNano()))

	validPayload, err := json.Marshal(makeStationRecord(t, "96745"))
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("96745"), Value: validPayload},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	transformer := pipeline.NewTransformer(testIndexOptions(), discardLogger(), observability.NewMetricsForTesting())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	// Only the valid station should appear on the sink topic.
	sm := readResult(ctx, t, consumer)
	assert.Equal(t, "96745", sm.Result.StationID)

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
