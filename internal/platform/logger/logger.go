package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Logger is a key/value structured logger. Values under credential keys are
// dropped and user ids are replaced by a short hash, including the user
// segment of document paths.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a logger; mode "prod" selects JSON output at info level
func New(mode string) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if m := strings.ToLower(mode); m == "prod" || m == "production" {
		cfg = zap.NewProductionConfig()
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() { _ = l.sugar.Sync() }

func (l *Logger) Debug(msg string, kv ...interface{}) { l.sugar.Debugw(msg, scrub(kv)...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.sugar.Infow(msg, scrub(kv)...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.sugar.Warnw(msg, scrub(kv)...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.sugar.Errorw(msg, scrub(kv)...) }
func (l *Logger) Fatal(msg string, kv ...interface{}) { l.sugar.Fatalw(msg, scrub(kv)...) }

// With returns a child logger carrying kv on every entry
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(scrub(kv)...)}
}

type policy int

const (
	keep policy = iota
	drop
	hash
	docPath
)

// keyPolicy covers the keys this service logs that need treatment
var keyPolicy = map[string]policy{
	"id_token":      drop,
	"token":         drop,
	"authorization": drop,
	"password":      drop,
	"api_key":       drop,
	"email":         drop,
	"user_id":       hash,
	"owner_id":      hash,
	"path":          docPath,
}

const redacted = "[REDACTED]"

func scrub(kv []interface{}) []interface{} {
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if !ok {
			continue
		}
		switch keyPolicy[strings.ToLower(key)] {
		case drop:
			out[i+1] = redacted
		case hash:
			out[i+1] = shortHash(fmt.Sprint(out[i+1]))
		case docPath:
			if s, ok := out[i+1].(string); ok {
				out[i+1] = maskUserSegment(s)
			}
		}
	}
	return out
}

// maskUserSegment hashes the id after a "users" segment,
// e.g. users/u1/core_values/core_values
func maskUserSegment(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "users" && parts[i+1] != "" {
			parts[i+1] = shortHash(parts[i+1])
		}
	}
	return strings.Join(parts, "/")
}

func shortHash(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return "hash:" + hex.EncodeToString(sum[:6])
}
