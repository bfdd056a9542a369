package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio = "stdio"
	ModeCLI   = "cli"

	// OCR providers
	OCRTesseract = "tesseract"
	OCRAzure     = "azure"
	OCRNone      = "none"

	// Output formats
	FormatJSON = "json"
	FormatXLSX = "xlsx"

	// Default values
	DefaultLogLevel      = "info"
	DefaultMaxFileSize   = 100 * 1024 * 1024 // 100MB
	DefaultWorkers       = 3
	DefaultTesseractLang = "eng"
	DefaultPdftoppm      = "pdftoppm"
	DefaultRenderDPI     = 200

	// EnvPrefix prefixes every environment variable, e.g. LABEL_OCR_PROVIDER
	EnvPrefix = "LABEL"
)

// ErrVersionRequested is returned when --version was passed
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the label reader
type Config struct {
	// Mode is "stdio" for the MCP server or "cli" to extract Files and exit
	Mode string

	// Directory confines every label path the server is asked to read
	Directory string

	// OCR configuration
	OCRProvider   string
	TesseractLang string
	AzureEndpoint string
	AzureKey      string

	// Pdftoppm renders pages for region OCR; empty uses embedded images only
	Pdftoppm  string
	RenderDPI int

	Workers     int
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes

	// CLI output
	OutputFormat string
	OutputPath   string
	Files        []string

	Version    string
	ServerName string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:          ModeStdio, // Default to stdio mode for MCP compatibility
		Directory:     currentDir,
		OCRProvider:   OCRTesseract,
		TesseractLang: DefaultTesseractLang,
		Pdftoppm:      DefaultPdftoppm,
		RenderDPI:     DefaultRenderDPI,
		Workers:       DefaultWorkers,
		LogLevel:      DefaultLogLevel,
		MaxFileSize:   DefaultMaxFileSize,
		OutputFormat:  FormatJSON,
		Version:       "1.0.0",
		ServerName:    "mcp-label-reader",
	}
}

// LoadFromFlags loads configuration from the process arguments, the
// environment and an optional .env file in the working directory
func LoadFromFlags() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Load(os.Args[0], os.Args[1:])
}

// Load parses args on a fresh flag set. Environment variables override
// defaults; flags override both.
func Load(program string, args []string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setupViperEnvironment(v, cfg)

	flags := pflag.NewFlagSet(program, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	defineCommandLineFlags(flags, cfg)
	flags.Usage = func() { printUsage(os.Stderr, program, flags) }

	// Usage is printed by the flag set on parse errors and --help
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if version, _ := flags.GetBool("version"); version {
		return nil, ErrVersionRequested
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)
	cfg.Files = flags.Args()

	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupViperEnvironment configures env lookups and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("dir", cfg.Directory)
	v.SetDefault("ocr-provider", cfg.OCRProvider)
	v.SetDefault("tesseract-lang", cfg.TesseractLang)
	v.SetDefault("azure-endpoint", cfg.AzureEndpoint)
	v.SetDefault("azure-key", cfg.AzureKey)
	v.SetDefault("pdftoppm", cfg.Pdftoppm)
	v.SetDefault("render-dpi", cfg.RenderDPI)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("log-level", cfg.LogLevel)
	v.SetDefault("max-file-size", cfg.MaxFileSize)
	v.SetDefault("format", cfg.OutputFormat)
	v.SetDefault("output", cfg.OutputPath)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("mode", cfg.Mode, "Run mode: 'stdio' for the MCP server, 'cli' to extract the given files")
	flags.String("dir", cfg.Directory, "Directory containing label PDFs")
	flags.String("ocr-provider", cfg.OCRProvider, "OCR provider: tesseract, azure or none")
	flags.String("tesseract-lang", cfg.TesseractLang, "Tesseract languages joined with '+', e.g. eng+hin")
	flags.String("azure-endpoint", cfg.AzureEndpoint, "Azure Computer Vision endpoint")
	flags.String("azure-key", cfg.AzureKey, "Azure Computer Vision key")
	flags.String("pdftoppm", cfg.Pdftoppm, "pdftoppm binary used to render pages for OCR; empty disables rendering")
	flags.Int("render-dpi", cfg.RenderDPI, "Resolution of rendered pages")
	flags.Int("workers", cfg.Workers, "Pages processed concurrently")
	flags.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Int64("max-file-size", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	flags.String("format", cfg.OutputFormat, "CLI output format: json or xlsx")
	flags.StringP("output", "o", cfg.OutputPath, "CLI output file (default stdout)")
	flags.BoolP("version", "v", false, "Print version and exit")
}

func printUsage(w io.Writer, program string, flags *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage of %s:\n", program)
	fmt.Fprintf(w, "\nMCP Label Reader - extracts brand, courier, products, order and customer from shipping labels\n\n")
	fmt.Fprintf(w, "Options:\n")
	fmt.Fprint(w, flags.FlagUsages())
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  %s --dir=/path/to/labels                      # MCP server on stdio\n", program)
	fmt.Fprintf(w, "  %s --mode=cli labels.pdf                      # print records as JSON\n", program)
	fmt.Fprintf(w, "  %s --mode=cli --format=xlsx -o out.xlsx a.pdf # write a workbook\n", program)
	fmt.Fprintf(w, "\nEnvironment Variables (also read from .env):\n")
	fmt.Fprintf(w, "  LABEL_MODE, LABEL_DIR, LABEL_OCR_PROVIDER, LABEL_TESSERACT_LANG,\n")
	fmt.Fprintf(w, "  LABEL_AZURE_ENDPOINT, LABEL_AZURE_KEY, LABEL_PDFTOPPM, LABEL_RENDER_DPI,\n")
	fmt.Fprintf(w, "  LABEL_WORKERS, LABEL_LOG_LEVEL, LABEL_MAX_FILE_SIZE, LABEL_FORMAT, LABEL_OUTPUT\n")
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = strings.ToLower(v.GetString("mode"))
	cfg.Directory = v.GetString("dir")
	cfg.OCRProvider = strings.ToLower(v.GetString("ocr-provider"))
	cfg.TesseractLang = v.GetString("tesseract-lang")
	cfg.AzureEndpoint = v.GetString("azure-endpoint")
	cfg.AzureKey = v.GetString("azure-key")
	cfg.Pdftoppm = v.GetString("pdftoppm")
	cfg.RenderDPI = v.GetInt("render-dpi")
	cfg.Workers = v.GetInt("workers")
	cfg.LogLevel = strings.ToLower(v.GetString("log-level"))
	cfg.MaxFileSize = v.GetInt64("max-file-size")
	cfg.OutputFormat = strings.ToLower(v.GetString("format"))
	cfg.OutputPath = v.GetString("output")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeCLI {
		return errors.New("mode must be either 'stdio' or 'cli'")
	}
	if c.Mode == ModeCLI && len(c.Files) == 0 {
		return errors.New("cli mode requires at least one PDF file")
	}

	if c.Directory == "" {
		return errors.New("label directory cannot be empty")
	}
	// Placeholder paths like ${workspaceRoot} are allowed to not exist yet
	if info, err := os.Stat(c.Directory); err == nil && !info.IsDir() {
		return fmt.Errorf("label directory is not a directory: %s", c.Directory)
	}

	switch c.OCRProvider {
	case OCRTesseract:
		if strings.TrimSpace(c.TesseractLang) == "" {
			return errors.New("tesseract language cannot be empty")
		}
	case OCRAzure:
		if c.AzureEndpoint == "" || c.AzureKey == "" {
			return errors.New("azure OCR requires both endpoint and key")
		}
	case OCRNone:
	default:
		return fmt.Errorf("invalid OCR provider: %s (must be one of: tesseract, azure, none)", c.OCRProvider)
	}

	if c.RenderDPI < 72 || c.RenderDPI > 600 {
		return errors.New("render dpi must be between 72 and 600")
	}

	if c.Workers < 1 || c.Workers > 64 {
		return errors.New("workers must be between 1 and 64")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.OutputFormat != FormatJSON && c.OutputFormat != FormatXLSX {
		return fmt.Errorf("invalid output format: %s (must be json or xlsx)", c.OutputFormat)
	}
	if c.OutputFormat == FormatXLSX && c.Mode == ModeCLI && c.OutputPath == "" {
		return errors.New("xlsx output requires --output")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true when running as an MCP server on stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsCLIMode returns true when extracting files from the command line
func (c *Config) IsCLIMode() bool {
	return c.Mode == ModeCLI
}

// String returns a string representation of the configuration. The Azure
// key is never printed.
func (c *Config) String() string {
	key := ""
	if c.AzureKey != "" {
		key = "***"
	}
	return fmt.Sprintf("Config{Mode: %s, Directory: %s, OCRProvider: %s, AzureKey: %s, Pdftoppm: %s, RenderDPI: %d, Workers: %d, LogLevel: %s, MaxFileSize: %d, OutputFormat: %s}",
		c.Mode, c.Directory, c.OCRProvider, key, c.Pdftoppm, c.RenderDPI, c.Workers, c.LogLevel, c.MaxFileSize, c.OutputFormat)
}
