package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Appender interface {
	write(data data)
	close()
}

type logAppender struct {
	timeFormat string
	isConsole  bool

	bufPool   sync.Pool
	log       *log.Logger
	writeLock sync.Mutex
	logFile   *os.File
}

func newLogAppender(timeFormat, path, fileName string) Appender {
	appender := &logAppender{
		timeFormat: timeFormat,
		bufPool: sync.Pool{
			New: func() interface{} {
				return new(strings.Builder)
			}},
		log: new(log.Logger),
	}

	if path == "" {
		appender.isConsole = true
		appender.log.SetOutput(os.Stdout)
	} else {
		if err := os.MkdirAll(path, 0755); err != nil {
			panic(fmt.Sprintf("[logger appender] mkdir err: %s\n", err))
		}
		file, err := os.OpenFile(filepath.Join(path, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Sprintf("[logger appender] open log file err: %s\n", err))
		}
		appender.logFile = file
		appender.log.SetOutput(file)
	}

	return appender
}

func (a *logAppender) write(d data) {
	buf := a.bufPool.Get().(*strings.Builder)
	defer func() {
		buf.Reset()
		a.bufPool.Put(buf)
	}()

	buf.WriteString(d.timestamp.Format(a.timeFormat))
	buf.WriteString(" [")
	buf.WriteString(d.level)
	buf.WriteString("] ")
	buf.WriteString(d.position)
	buf.WriteString(" - ")
	buf.WriteString(d.content)

	a.writeLock.Lock()
	defer a.writeLock.Unlock()
	a.log.Println(buf.String())
}

func (a *logAppender) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
