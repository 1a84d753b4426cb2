package utils

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/natefinch/lumberjack"
	log "github.com/sirupsen/logrus"
)

var serviceName = "gadget-server"

func GenerateTraceId() string {
	return uuid.New().String()
}

// SetupLogging applies the level, tags every entry with the service and,
// when file is set, tees the output into a size-rotated log file.
func SetupLogging(level, file, service string) {
	switch level {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)

	var out io.Writer = os.Stdout
	if file != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	log.SetOutput(out)

	if service != "" {
		serviceName = service
	}
}

func ExtractServiceName() string {
	return serviceName
}

func LogEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	case "panic":
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

// LogMessageWithFields logs with the trace id of the request carried by ctx.
func LogMessageWithFields(ctx context.Context, level, message string) {
	traceId, _ := ctx.Value(TraceIdKey.String()).(string)

	entry := log.WithFields(log.Fields{
		"traceId": traceId,
		"service": serviceName,
	})

	LogEntry(entry, level, message)
}
