package aeronet

import (
	"io"

	"github.com/hhkbp2/go-logging"
)

// ログの書式
const (
	LogFormat     = "%(asctime)s %(levelname)s %(name)s: %(message)s"
	LogDateFormat = "%Y-%m-%d %H:%M:%S %3n"
)

// io.Writer を go-logging の Stream として扱う
type writerStream struct {
	w io.Writer
}

func (s *writerStream) Tell() (int64, error) { return 0, nil }

func (s *writerStream) Write(msg string) error {
	_, err := io.WriteString(s.w, msg)
	return err
}

func (s *writerStream) Flush() error { return nil }
func (s *writerStream) Close() error { return nil }

// """ログを w に出力するハンドラを作成し、パッケージのロガーに追加します。
// 標準出力はCSVの出力に使うため、CLIからは標準エラー出力を指定します。
// Returns:
//
//	logging.Handler: 追加したハンドラ。RemoveLogOutput で取り外す
//
// """
func AddLogOutput(w io.Writer) logging.Handler {
	handler := logging.NewStreamHandler("aeronet", logging.LevelNotset, &writerStream{w: w})
	handler.SetFormatter(logging.NewStandardFormatter(LogFormat, LogDateFormat))
	logger.AddHandler(handler)
	return handler
}

func RemoveLogOutput(handler logging.Handler) {
	logger.RemoveHandler(handler)
}

// ログレベルの設定
func SetLogLevel(level logging.LogLevelType) {
	logger.SetLevel(level)
}
