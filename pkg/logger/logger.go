package logger

import (
	"io"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.Nop()

// Init настраивает глобальный логгер с выводом JSON в stdout
func Init(serviceName string, level string) {
	log = newLogger(os.Stdout, serviceName, level)
}

// InitWithWriter используется в тестах для перехвата вывода
func InitWithWriter(serviceName string, level string, w io.Writer) {
	log = newLogger(w, serviceName, level)
}

// InitLogstash дублирует логи в Logstash по TCP (ELK Stack)
func InitLogstash(addr string, serviceName string, level string) error {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return err
	}

	log = newLogger(zerolog.MultiLevelWriter(os.Stdout, conn), serviceName, level)
	return nil
}

func newLogger(w io.Writer, serviceName string, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}

// Printf нужен для адаптеров сторонних библиотек (cron.Logger и т.п.)
func Printf(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}
