package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type DbOperation string

const (
	DbOpSelect DbOperation = "select"
	DbOpInsert DbOperation = "insert"
)

type RedisOperation string

const (
	RedisOpGet   RedisOperation = "get"
	RedisOpSet   RedisOperation = "set"
	RedisOpDel   RedisOperation = "del"
	RedisOpScan  RedisOperation = "scan"
	RedisOpPing  RedisOperation = "ping"
	RedisOpWatch RedisOperation = "watch"
)

// Timer замеряет длительность одной операции и пишет ее в гистограмму.
// Используется как defer timer.ObserveDuration()
type Timer struct {
	observer prometheus.Observer
	start    time.Time
}

func newTimer(observer prometheus.Observer) *Timer {
	return &Timer{observer: observer, start: time.Now()}
}

func (t *Timer) ObserveDuration() {
	t.observer.Observe(time.Since(t.start).Seconds())
}

// NewDbTimer - таймер запроса к хранилищу отзывов (table - таблица или коллекция)
func NewDbTimer(service string, op DbOperation, table string) *Timer {
	return newTimer(DbQueryDuration.WithLabelValues(service, string(op), table))
}

func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}

func NewRedisTimer(service string, op RedisOperation) *Timer {
	return newTimer(RedisOperationDuration.WithLabelValues(service, string(op)))
}

func RecordRedisError(service string, op RedisOperation) {
	RedisErrors.WithLabelValues(service, string(op)).Inc()
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

// KafkaProduceTimer учитывает длительность только успешной отправки,
// ошибки считаются отдельно
type KafkaProduceTimer struct {
	Timer
	service string
	topic   string
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		Timer:   Timer{observer: KafkaProduceDuration.WithLabelValues(service, topic), start: time.Now()},
		service: service,
		topic:   topic,
	}
}

func (kt *KafkaProduceTimer) Success() {
	KafkaMessagesProduced.WithLabelValues(kt.service, kt.topic).Inc()
	kt.ObserveDuration()
}

func (kt *KafkaProduceTimer) Error() {
	KafkaErrors.WithLabelValues(kt.service, kt.topic, "produce").Inc()
}
