package utils

import (
	"strings"

	"go.uber.org/zap"
)

func AddToLogMessage(logMessagesBuilder *strings.Builder, strToAdd string) {

	if logMessagesBuilder.Len() == logMessagesBuilder.Cap() {

		logMessagesBuilder.Grow(len(strToAdd))
	}

	logMessagesBuilder.WriteString(strToAdd)
	logMessagesBuilder.WriteString(";")
	logMessagesBuilder.WriteString("\n")
}

// FlushLogMessage writes the accumulated request log through the global logger
func FlushLogMessage(logMessagesBuilder *strings.Builder, fields ...zap.Field) {
	if logMessagesBuilder.Len() == 0 {
		return
	}
	Logger.Info(strings.TrimSpace(logMessagesBuilder.String()), fields...)
}
