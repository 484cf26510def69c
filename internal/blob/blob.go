// Package blob reads and writes whole documents at a location: a local
// path, "-" for stdin/stdout, or s3://bucket/key on S3 or an S3-compatible
// endpoint.
package blob

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/trailmap/trailmap/pkg/constants"
	"github.com/trailmap/trailmap/pkg/errors"
)

// Scheme is the kind of a location.
type Scheme string

// Location kinds.
const (
	SchemeFile  Scheme = "file"
	SchemeStdio Scheme = "stdio"
	SchemeS3    Scheme = "s3"
)

// Location is a parsed document location.
type Location struct {
	Scheme Scheme
	Path   string // file path for SchemeFile
	Bucket string // SchemeS3 only
	Key    string // SchemeS3 only
}

// String implements fmt.Stringer.
func (l Location) String() string {
	switch l.Scheme {
	case SchemeStdio:
		return "-"
	case SchemeS3:
		return "s3://" + l.Bucket + "/" + l.Key
	default:
		return l.Path
	}
}

// Parse classifies loc.
func Parse(loc string) (Location, error) {
	switch {
	case loc == "-":
		return Location{Scheme: SchemeStdio}, nil
	case strings.HasPrefix(loc, "s3://"):
		bucket, key, _ := strings.Cut(strings.TrimPrefix(loc, "s3://"), "/")
		if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
			return Location{}, errors.NewValidationError("location", loc, "expected s3://bucket/key")
		}
		return Location{Scheme: SchemeS3, Bucket: bucket, Key: key}, nil
	case loc == "":
		return Location{}, errors.NewValidationError("location", loc, "empty location")
	default:
		return Location{Scheme: SchemeFile, Path: loc}, nil
	}
}

// ObjectAPI is the part of the S3 client the store uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds S3 client settings. Credentials come from the default AWS
// chain (environment, shared config, instance role).
type S3Config struct {
	Region    string
	Endpoint  string // optional, for S3-compatible services such as MinIO
	PathStyle bool
}

// Store reads and writes documents.
type Store struct {
	s3cfg  S3Config
	stdin  io.Reader
	stdout io.Writer

	once  sync.Once
	api   ObjectAPI
	apiEr error
}

// Option configures a Store.
type Option func(*Store)

// WithS3Config sets the S3 client settings.
func WithS3Config(cfg S3Config) Option {
	return func(s *Store) { s.s3cfg = cfg }
}

// WithObjectAPI replaces the S3 client.
func WithObjectAPI(api ObjectAPI) Option {
	return func(s *Store) {
		s.once.Do(func() {})
		s.api = api
	}
}

// WithStdio sets the streams used for "-".
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(s *Store) {
		s.stdin = in
		s.stdout = out
	}
}

// New returns a store. The S3 client is created on first use.
func New(opts ...Option) *Store {
	s := &Store{stdin: os.Stdin, stdout: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the whole document at loc.
func (s *Store) Read(ctx context.Context, loc string) ([]byte, error) {
	l, err := Parse(loc)
	if err != nil {
		return nil, err
	}
	switch l.Scheme {
	case SchemeStdio:
		data, err := io.ReadAll(s.stdin)
		return data, errors.WrapIO("read", "stdin", err)
	case SchemeS3:
		api, err := s.objects(ctx)
		if err != nil {
			return nil, err
		}
		out, err := api.GetObject(ctx, &s3.GetObjectInput{Bucket: &l.Bucket, Key: &l.Key})
		if err != nil {
			return nil, errors.WrapIO("read", l.String(), err)
		}
		defer func() { _ = out.Body.Close() }()
		data, err := io.ReadAll(out.Body)
		return data, errors.WrapIO("read", l.String(), err)
	default:
		data, err := os.ReadFile(l.Path)
		return data, errors.WrapIO("read", l.Path, err)
	}
}

// Write stores data at loc, replacing what was there. Local files are
// written through a temporary file and renamed into place.
func (s *Store) Write(ctx context.Context, loc string, data []byte) error {
	l, err := Parse(loc)
	if err != nil {
		return err
	}
	switch l.Scheme {
	case SchemeStdio:
		_, err := s.stdout.Write(data)
		return errors.WrapIO("write", "stdout", err)
	case SchemeS3:
		api, err := s.objects(ctx)
		if err != nil {
			return err
		}
		_, err = api.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      &l.Bucket,
			Key:         &l.Key,
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/json"),
		})
		return errors.WrapIO("write", l.String(), err)
	default:
		return writeFile(l.Path, data)
	}
}

func (s *Store) objects(ctx context.Context) (ObjectAPI, error) {
	s.once.Do(func() {
		s.api, s.apiEr = newS3(ctx, s.s3cfg)
	})
	return s.api, s.apiEr
}

func newS3(ctx context.Context, cfg S3Config) (ObjectAPI, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.NewConfigError("s3", "cannot load AWS configuration", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	if err := os.Chmod(name, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return errors.WrapIO("write", path, os.Rename(name, path))
}
