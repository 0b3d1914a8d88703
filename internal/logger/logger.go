package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	L       *zap.Logger
	S       *zap.SugaredLogger
	logFile *os.File
)

// Init opens the log file, truncating any previous run, and installs the
// global logger. Until Init succeeds every helper is a no-op.
func Init(debug bool) error {
	logPath, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = "ts"
	enc.FunctionKey = zapcore.OmitKey
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(f), level)
	logFile = f
	L = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel))
	S = L.Sugar()

	S.Infow("logger initialized", "path", logPath, "debug", debug)
	return nil
}

// Close flushes and closes the log file.
func Close() {
	if L != nil {
		_ = L.Sync()
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	L, S, logFile = nil, nil, nil
}

// Path resolves the log file: EINVIEW_LOG_FILE, then the einview config
// directory.
func Path() (string, error) {
	if v := os.Getenv("EINVIEW_LOG_FILE"); v != "" {
		return v, nil
	}
	if v := os.Getenv("EINVIEW_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "einview.log"), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "einview", "einview.log"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "einview", "einview.log"), nil
}

func logw(level zapcore.Level, msg string, keysAndValues []interface{}) {
	if S != nil {
		S.Logw(level, msg, keysAndValues...)
	}
}

func Debug(msg string, keysAndValues ...interface{}) { logw(zapcore.DebugLevel, msg, keysAndValues) }
func Info(msg string, keysAndValues ...interface{})  { logw(zapcore.InfoLevel, msg, keysAndValues) }
func Warn(msg string, keysAndValues ...interface{})  { logw(zapcore.WarnLevel, msg, keysAndValues) }
func Error(msg string, keysAndValues ...interface{}) { logw(zapcore.ErrorLevel, msg, keysAndValues) }
