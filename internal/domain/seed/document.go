package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
)

// Entry types
const (
	TypeDir  = "dir"
	TypeFile = "file"
)

// Entry describes one node of a seed document.
type Entry struct {
	Name     string  `json:"name" yaml:"name" toml:"name"`
	Type     string  `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Content  string  `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	Mode     string  `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty"`
	Children []Entry `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Kind returns the entry type, defaulting to a directory when the entry has
// children and to a file otherwise.
func (e Entry) Kind() string {
	if e.Type != "" {
		return e.Type
	}
	if len(e.Children) > 0 {
		return TypeDir
	}
	return TypeFile
}

// Document is the root of a seed file.
type Document struct {
	Entries []Entry `json:"entries" yaml:"entries" toml:"entries"`
}

// Format is a seed document encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
	FormatJSON
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Compression wrapping a seed document.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
)

var ErrUnknownFormat = errors.New("unknown seed format")

// DetectFormat derives the encoding and compression from a file name such as
// layout.yaml or layout.json.zst.
func DetectFormat(name string) (Format, Compression) {
	lower := strings.ToLower(name)
	compression := CompressionNone
	switch ext := filepath.Ext(lower); ext {
	case ".gz":
		compression = CompressionGzip
		lower = strings.TrimSuffix(lower, ext)
	case ".zst":
		compression = CompressionZstd
		lower = strings.TrimSuffix(lower, ext)
	}

	switch filepath.Ext(lower) {
	case ".yaml", ".yml":
		return FormatYAML, compression
	case ".toml":
		return FormatTOML, compression
	case ".json":
		return FormatJSON, compression
	default:
		return FormatUnknown, compression
	}
}

// Parse decodes a seed document.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatJSON:
		err = sonic.Unmarshal(data, &doc)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s seed: %w", format, err)
	}
	return &doc, nil
}

// Encode renders doc in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatTOML:
		return toml.Marshal(doc)
	case FormatJSON:
		return sonic.MarshalIndent(doc, "", "  ")
	default:
		return nil, ErrUnknownFormat
	}
}

// LoadFile reads and decodes a seed document from the host filesystem.
func LoadFile(path string) (*Document, error) {
	format, compression := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	switch compression {
	case CompressionGzip:
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("gzip seed: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	case CompressionZstd:
		zstdReader, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("zstd seed: %w", err)
		}
		defer zstdReader.Close()
		r = zstdReader
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return Parse(data, format)
}
