// Package source loads resume bytes from a local path or an S3 object.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxInputBytes bounds the size of a resume file.
const MaxInputBytes = 20 << 20

var ErrTooLarge = errors.New("input exceeds maximum size")

// Input is a loaded resume file
type Input struct {
	// Ref is the path or s3:// URL the input was loaded from
	Ref  string
	Data []byte
}

// Loader loads an input by reference
type Loader interface {
	Load(ctx context.Context, ref string) (*Input, error)
}

// IsS3 reports whether ref is an s3:// URL.
func IsS3(ref string) bool {
	return strings.HasPrefix(ref, "s3://")
}

// Router dispatches s3:// references to the S3 loader and everything else
// to the local file system.
type Router struct {
	S3 Loader
}

// Load implements Loader.
func (r *Router) Load(ctx context.Context, ref string) (*Input, error) {
	if IsS3(ref) {
		if r.S3 == nil {
			return nil, fmt.Errorf("cannot load %s: object storage is not configured", ref)
		}
		return r.S3.Load(ctx, ref)
	}
	return LoadFile(ref)
}

// LoadFile reads a local file.
func LoadFile(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("input %s is a directory", path)
	}
	data, err := readLimited(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &Input{Ref: path, Data: data}, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxInputBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
