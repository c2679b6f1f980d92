// Package logger builds the logrus loggers used by blinkreg commands.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// A Config describes where and how logs are written.
type Config struct {
	// Level is a logrus level name, info when empty.
	Level string
	// Filename enables a rotated log file.
	Filename string
	// Quiet discards the console output, only the file receives entries.
	Quiet bool
	// Clock is used to timestamp entries, time.Now when nil.
	Clock func() time.Time
}

// New returns a new well configured logger.
func New(cfg Config) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrap(err, "log level")
		}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	formatter := &logFormatter{now: cfg.Clock}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(formatter)
	log.SetOutput(os.Stderr)
	if cfg.Quiet {
		log.SetOutput(io.Discard) // stdout & stderr to /dev/null
	}

	if cfg.Filename != "" {
		log.Hooks.Add(&fileHook{
			rotate: &lumberjack.Logger{
				Filename:   cfg.Filename,
				MaxSize:    20, // megabytes
				MaxBackups: 2,
				MaxAge:     10, //days
			},
			formatter: formatter,
		})
	}

	return log, nil
}

////////////////////
//                //
// File hook      //
//                //
////////////////////

type fileHook struct {
	sync.Mutex
	rotate    io.Writer
	formatter logrus.Formatter
}

// Fire opens the file, writes to the file and closes the file.
// Whichever user is running the function needs write permissions to the file or directory if the file does not yet exist.
func (hook *fileHook) Fire(entry *logrus.Entry) error {
	hook.Lock()
	defer hook.Unlock()

	// use our formatter instead of entry.String()
	msg, err := hook.formatter.Format(entry)
	if err != nil {
		log.Println("failed to generate string for entry:", err)
		return err
	}

	_, err = hook.rotate.Write(msg)
	return err
}

// Levels returns configured log levels.
func (hook *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

////////////////////
//                //
// Log formatter  //
//                //
////////////////////

type logFormatter struct {
	now func() time.Time
}

// Format implements Logrus formatter.
func (f *logFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	fields := ""
	if len(entry.Data) > 0 {
		fs := []string{}
		for k, v := range entry.Data {
			fs = append(fs, fmt.Sprintf("%s=%v", k, v))
		}
		sort.Strings(fs)
		fields = fmt.Sprintf(" (%s)", strings.Join(fs, ", "))
	}

	data := fmt.Sprintf("[%s] %+5s: %s%s\n",
		f.now().Format(time.RFC3339),
		strings.ToUpper(entry.Level.String()),
		entry.Message,
		fields,
	)
	return []byte(data), nil
}
