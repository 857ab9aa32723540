package utils

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

const logPrefix = "[Skillforge] "

// ANSI escape codes used by the text format.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

// LoggerConfig controls InitLogger
type LoggerConfig struct {
	// text or json
	Format string
	// defaults to os.Stdout
	Output io.Writer
	// ANSI colors, text format only
	EnableColors bool
}

// InitLogger builds the process logger. The json format writes one object per line.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	if cfg.Format == "json" {
		return log.New(jsonLineWriter{out: cfg.Output}, "", 0)
	}

	prefix := logPrefix
	if cfg.EnableColors {
		prefix = colorCyan + prefix + colorReset
	}
	return log.New(cfg.Output, prefix, log.LstdFlags|log.Lshortfile|log.LUTC)
}

type jsonLine struct {
	Time    string `json:"time"`
	Service string `json:"service"`
	Message string `json:"msg"`
}

// jsonLineWriter wraps each log.Logger line into a JSON object.
type jsonLineWriter struct {
	out io.Writer
}

func (w jsonLineWriter) Write(p []byte) (int, error) {
	line, err := sonic.Marshal(jsonLine{
		Time:    time.Now().UTC().Format(time.RFC3339),
		Service: strings.Trim(logPrefix, "[] "),
		Message: strings.TrimRight(string(p), "\n"),
	})
	if err != nil {
		return 0, err
	}
	if _, err := w.out.Write(append(line, '\n')); err != nil {
		return 0, err
	}
	return len(p), nil
}

// StatusColor picks an ANSI color for an HTTP status
func StatusColor(status int) string {
	switch status / 100 {
	case 5:
		return colorRed
	case 4:
		return colorYellow
	case 3:
		return colorCyan
	case 2:
		return colorGreen
	}
	return colorWhite
}

var methodColors = map[string]string{
	"GET":    colorBlue,
	"POST":   colorYellow,
	"PUT":    colorCyan,
	"DELETE": colorRed,
	"PATCH":  colorGreen,
}

// MethodColor picks an ANSI color for an HTTP method
func MethodColor(method string) string {
	if color, ok := methodColors[method]; ok {
		return color
	}
	return colorWhite
}

// Colorize wraps s in color when color is set.
func Colorize(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + colorReset
}
