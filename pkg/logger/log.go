package logger

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

const (
	_trace = iota
	_debug
	_info
	_warn
	_error
	_fatal

	TraceLevel = "TRACE"
	DebugLevel = "DEBUG"
	InfoLevel  = "INFO"
	WarnLevel  = "WARN"
	ErrorLevel = "ERROR"
	FatalLevel = "FATAL"

	_timeFormat = "2006-01-02 15:04:05"
)

type ILog interface {
	Trace(text string, v ...interface{})
	Debug(text string, v ...interface{})
	Info(text string, v ...interface{})
	Warn(text string, v ...interface{})
	Error(text string, v ...interface{})
	Fatal(text string, v ...interface{})
}

type data struct {
	timestamp time.Time
	position  string
	level     string
	content   string
}

var defaultLogger = newLoggerHandler(&Config{})

func Trace(text string, v ...interface{}) {
	defaultLogger.log(TraceLevel, text, v...)
}
func Debug(text string, v ...interface{}) {
	defaultLogger.log(DebugLevel, text, v...)
}
func Info(text string, v ...interface{}) {
	defaultLogger.log(InfoLevel, text, v...)
}
func Warn(text string, v ...interface{}) {
	defaultLogger.log(WarnLevel, text, v...)
}
func Error(text string, v ...interface{}) {
	defaultLogger.log(ErrorLevel, text, v...)
}
func Fatal(text string, v ...interface{}) {
	defaultLogger.log(FatalLevel, text, v...)
}

type LoggerHandler struct {
	lock      sync.Mutex
	level     int
	dataQueue chan data
	appender  Appender
	running   int64
}

type Config struct {
	Level       string `yaml:"level"`       // 日志级别
	QueueLength int    `yaml:"queueLength"` // 缓存队列大小，默认10000
	AppenderNum int    `yaml:"appenderNum"` // 日志输出器数量，默认1
	TimeFormat  string `yaml:"timeFormat"`  // 日志时间输出格式
	Path        string `yaml:"path"`        // 日志存储目录，为空输出到控制台
	FileName    string `yaml:"fileName"`    // 日志文件名称
}

func DefaultLogger() *LoggerHandler {
	return defaultLogger
}

func InitLogger(config *Config) {
	defaultLogger = newLoggerHandler(config)
}

func NewLogger(config *Config) *LoggerHandler {
	return newLoggerHandler(config)
}

func newLoggerHandler(config *Config) *LoggerHandler {
	if config.Level == "" {
		config.Level = InfoLevel
	}
	if config.QueueLength == 0 {
		config.QueueLength = 10000
	}
	if config.AppenderNum <= 0 {
		config.AppenderNum = 1
	}
	if config.TimeFormat == "" {
		config.TimeFormat = _timeFormat
	}
	if config.FileName == "" {
		config.FileName = "app.log"
	}

	logger := &LoggerHandler{
		level:     getLevel(config.Level),
		dataQueue: make(chan data, config.QueueLength),
		appender:  newLogAppender(config.TimeFormat, config.Path, config.FileName),
	}

	for i := 0; i < config.AppenderNum; i++ {
		go func() {
			for d := range logger.dataQueue {
				atomic.AddInt64(&logger.running, 1)
				logger.appender.write(d)
				atomic.AddInt64(&logger.running, -1)
			}
		}()
	}

	return logger
}

func (lh *LoggerHandler) Close() {
	lh.lock.Lock()
	defer lh.lock.Unlock()
	if lh.dataQueue != nil {
		close(lh.dataQueue)
		lh.dataQueue = nil
	}
	for atomic.LoadInt64(&lh.running) != 0 {
	}
	lh.appender.close()
}

func (lh *LoggerHandler) Trace(text string, v ...interface{}) {
	lh.log(TraceLevel, text, v...)
}

func (lh *LoggerHandler) Debug(text string, v ...interface{}) {
	lh.log(DebugLevel, text, v...)
}

func (lh *LoggerHandler) Info(text string, v ...interface{}) {
	lh.log(InfoLevel, text, v...)
}

func (lh *LoggerHandler) Warn(text string, v ...interface{}) {
	lh.log(WarnLevel, text, v...)
}

func (lh *LoggerHandler) Error(text string, v ...interface{}) {
	lh.log(ErrorLevel, text, v...)
}

func (lh *LoggerHandler) Fatal(text string, v ...interface{}) {
	lh.log(FatalLevel, text, v...)
}

func getLevel(level string) int {
	switch level {
	case TraceLevel:
		return _trace
	case DebugLevel:
		return _debug
	case InfoLevel:
		return _info
	case WarnLevel:
		return _warn
	case ErrorLevel:
		return _error
	case FatalLevel:
		return _fatal
	default:
		return _trace
	}
}

func (lh *LoggerHandler) log(level string, text string, v ...interface{}) {
	if lh.level > getLevel(level) {
		return
	}

	_, file, line, _ := runtime.Caller(2)
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}

	if lh.dataQueue != nil {
		lh.dataQueue <- data{
			timestamp: time.Now(),
			level:     level,
			content:   fmt.Sprintf(text, v...),
			position:  fmt.Sprintf("%s:%d", short, line),
		}
	}
}
