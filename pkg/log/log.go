// Package log wraps logrus with Fielder-based structured logging. Debug
// messages are dropped before any fields are built unless SetDebug(true) was
// called.
package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/chihaya/benc/bencode"
)

var (
	l     = logrus.New()
	debug = false
)

// SetDebug controls debug logging.
func SetDebug(to bool) {
	debug = to
	if to {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
}

// SetFormatter sets the formatter.
func SetFormatter(to logrus.Formatter) {
	l.SetFormatter(to)
}

// SetOutput sets the output.
func SetOutput(to io.Writer) {
	l.SetOutput(to)
}

// Fields is a map of logging fields.
type Fields map[string]interface{}

// LogFields implements Fielder for Fields.
func (f Fields) LogFields() Fields {
	return f
}

// A Fielder provides Fields via the LogFields method.
type Fielder interface {
	LogFields() Fields
}

type err struct {
	e error
}

// LogFields provides Fields for logging. Parse failures additionally carry
// their kind and offset.
func (e err) LogFields() Fields {
	f := Fields{
		"error": e.e.Error(),
		"type":  fmt.Sprintf("%T", e.e),
	}

	var perr *bencode.Error
	if errors.As(e.e, &perr) {
		f["kind"] = perr.Kind.String()
		f["offset"] = perr.Offset
	}

	return f
}

// Err returns a Fielder describing e.
func Err(e error) Fielder {
	return err{e}
}

// mergeFielders copies the Fields of every Fielder into one set. Keys of the
// i-th Fielder after the first are prefixed with "i.".
func mergeFielders(fielders ...Fielder) logrus.Fields {
	if fielders[0] == nil {
		return nil
	}

	fields := Fields{}
	for k, v := range fielders[0].LogFields() {
		fields[k] = v
	}
	for i := 1; i < len(fielders); i++ {
		if fielders[i] == nil {
			continue
		}
		prefix := fmt.Sprint(i, ".")
		for k, v := range fielders[i].LogFields() {
			fields[prefix+k] = v
		}
	}

	return logrus.Fields(fields)
}

// Value summarizes a bencoded value for logging without rendering it.
func Value(v bencode.Value) Fielder {
	return value{v}
}

type value struct {
	v bencode.Value
}

func (v value) LogFields() Fields {
	switch v := v.v.(type) {
	case bencode.String:
		return Fields{"value": "string", "len": len(v)}
	case bencode.Integer:
		return Fields{"value": "integer"}
	case bencode.List:
		return Fields{"value": "list", "len": len(v)}
	case bencode.Dict:
		return Fields{"value": "dict", "len": len(v)}
	}
	return Fields{"value": "none"}
}

func entry(fielders []Fielder) logrus.FieldLogger {
	if len(fielders) == 0 {
		return l
	}
	return l.WithFields(mergeFielders(fielders...))
}

// Debug logs at the debug level if debug logging is enabled.
func Debug(v interface{}, fielders ...Fielder) {
	if debug {
		entry(fielders).Debug(v)
	}
}

// Info logs at the info level.
func Info(v interface{}, fielders ...Fielder) {
	entry(fielders).Info(v)
}

// Warn logs at the warning level.
func Warn(v interface{}, fielders ...Fielder) {
	entry(fielders).Warn(v)
}

// Error logs at the error level.
func Error(v interface{}, fielders ...Fielder) {
	entry(fielders).Error(v)
}

// Fatal logs at the fatal level and exits with a status code != 0.
func Fatal(v interface{}, fielders ...Fielder) {
	entry(fielders).Fatal(v)
}
