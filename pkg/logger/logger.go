package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets up the global logger. Development gets pretty console output,
// everything else gets JSON.
func Init(environment string) {
	if environment == "development" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func Debug(msg string, args ...any) {
	emit(log.Debug(), msg, args)
}

func Info(msg string, args ...any) {
	emit(log.Info(), msg, args)
}

func Warn(msg string, args ...any) {
	emit(log.Warn(), msg, args)
}

func Error(msg string, args ...any) {
	emit(log.Error(), msg, args)
}

func Fatal(msg string, args ...any) {
	emit(log.Fatal(), msg, args)
}

// emit accepts either alternating key/value pairs or bare values
// (errors become the "error" field, anything else lands in "detail").
func emit(e *zerolog.Event, msg string, args []any) {
	for i := 0; i < len(args); {
		if key, ok := args[i].(string); ok && i+1 < len(args) {
			e = e.Interface(key, args[i+1])
			i += 2
			continue
		}
		if err, ok := args[i].(error); ok {
			e = e.Err(err)
		} else {
			e = e.Interface("detail", args[i])
		}
		i++
	}

	e.Msg(msg)
}
