package logger

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Глубина поиска вызывающего кода в стеке
const maxCallerDepth = 16

// LogrusContextHook добавляет к записи лога файл и функцию, из которых она сделана
type LogrusContextHook struct{}

// Levels уровни, на которых срабатывает хук
func (LogrusContextHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire заполняет поля file и func первым кадром стека вне logrus и этого пакета
func (hook LogrusContextHook) Fire(entry *logrus.Entry) error {
	pcs := make([]uintptr, maxCallerDepth)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "github.com/sirupsen/logrus") &&
			!strings.HasSuffix(frame.File, "pkg/logger/hook.go") {
			entry.Data["file"] = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
			entry.Data["func"] = filepath.Base(frame.Function)
			break
		}
		if !more {
			break
		}
	}
	return nil
}
