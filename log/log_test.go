package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogLevel(t *testing.T) {
	r := require.New(t)

	hooked := 0
	hookFn := func(entry zapcore.Entry) error {
		hooked++
		r.Equal(zapcore.InfoLevel, entry.Level, "got wrong log level")
		return nil
	}

	var buf bytes.Buffer
	prev := logWriter
	logWriter = &buf
	t.Cleanup(func() { logWriter = prev })

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	logger := NewWithLevel("logtest", zap.NewAtomicLevelAt(zapcore.InfoLevel),
		zapcore.NewConsoleEncoder(cfg), hookFn)

	logger.Debug("test001")
	r.Zero(buf.Len())

	logger.Info("test002", zap.String("node", "abc"))
	r.Equal("INFO\tlogtest\ttest002\t{\"node\": \"abc\"}\n", buf.String())
	r.Equal(1, hooked)
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		desc string
		cfg  Config
		err  bool
	}{
		{desc: "default", cfg: DefaultConfig()},
		{desc: "json", cfg: Config{Level: "debug", Encoder: JSONEncoder}},
		{desc: "bad level", cfg: Config{Level: "loud", Encoder: ConsoleEncoder}, err: true},
		{desc: "bad encoder", cfg: Config{Level: "info", Encoder: "xml"}, err: true},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			logger, err := New("test", tc.cfg)
			if tc.err {
				var fatal *FatalError
				require.ErrorAs(t, err, &fatal)
				require.Equal(t, "ERR_MALFORMED_CONFIG", fatal.Code)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestFatalErrorUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := ErrEnsureDataDir("/data", cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "could not open/create data dir /data: permission denied", err.Error())
}
