package logger

import (
	"bytes"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	timeLayout = "2006-01-02 15:04:05.000"
	levelWidth = 7
	areaWidth  = 12
	stackField = "stack"
)

// lineFormatter renders "<time> [LEVEL  ] [    area    ] message".
type lineFormatter struct{}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	area, _ := entry.Data[areaField].(string)
	level := levelName(entry.Level)

	b.WriteString(entry.Time.Format(timeLayout))
	b.WriteString(" [")
	b.WriteString(level)
	b.WriteString(strings.Repeat(" ", max(levelWidth-len(level), 0)))
	b.WriteString("] [")
	writeCentered(b, area, areaWidth)
	b.WriteString("] ")
	b.WriteString(entry.Message)
	b.WriteByte('\n')

	if stack, ok := entry.Data[stackField].(string); ok && stack != "" {
		b.WriteString("--- Stack Trace ---\n")
		b.WriteString(stack)
		if !strings.HasSuffix(stack, "\n") {
			b.WriteByte('\n')
		}
		b.WriteString("-------------------\n")
	}

	return b.Bytes(), nil
}

func writeCentered(b *bytes.Buffer, s string, width int) {
	pad := width - len(s)
	if pad <= 0 {
		b.WriteString(s)
		return
	}
	left := pad / 2
	b.WriteString(strings.Repeat(" ", left))
	b.WriteString(s)
	b.WriteString(strings.Repeat(" ", pad-left))
}

func levelName(l logrus.Level) string {
	switch l {
	case logrus.DebugLevel, logrus.TraceLevel:
		return LevelDebug.String()
	case logrus.InfoLevel:
		return LevelInfo.String()
	case logrus.WarnLevel:
		return LevelWarn.String()
	default:
		return LevelError.String()
	}
}
