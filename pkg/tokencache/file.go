package tokencache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// FilePersister stores tokens in a YAML file keyed by cache key. Access is
// serialized across processes with a lock file next to it.
type FilePersister struct {
	path string
}

// NewFilePersister creates a file persister writing to path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// DefaultFilePath returns ~/.clarifai/tokens.yml.
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, ".clarifai", constants.TokenFileName), nil
}

// Path returns the token file path.
func (p *FilePersister) Path() string {
	return p.path
}

type tokenFile struct {
	Tokens map[string]*clarifai.Token `yaml:"tokens"`
}

// LoadToken implements clarifai.TokenPersister.
func (p *FilePersister) LoadToken(ctx context.Context, key string) (*clarifai.Token, error) {
	err := checkKey(key)
	if err != nil {
		return nil, err
	}

	unlock, err := p.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	file, err := p.read()
	if err != nil {
		return nil, err
	}

	return file.Tokens[key], nil
}

// SaveToken implements clarifai.TokenPersister.
func (p *FilePersister) SaveToken(ctx context.Context, key string, token *clarifai.Token) error {
	err := checkKey(key)
	if err != nil {
		return err
	}

	return p.update(ctx, func(file *tokenFile) {
		file.Tokens[key] = token
	})
}

// DeleteToken removes the token stored under key.
func (p *FilePersister) DeleteToken(ctx context.Context, key string) error {
	return p.update(ctx, func(file *tokenFile) {
		delete(file.Tokens, key)
	})
}

func (p *FilePersister) update(ctx context.Context, mutate func(*tokenFile)) error {
	unlock, err := p.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	file, err := p.read()
	if err != nil {
		return err
	}

	mutate(file)

	return p.write(file)
}

// lock takes the inter-process lock. If it cannot be taken within
// LockTimeout the operation proceeds unlocked rather than hanging.
func (p *FilePersister) lock(ctx context.Context) (func(), error) {
	err := os.MkdirAll(filepath.Dir(p.path), constants.ConfigDirPerm)
	if err != nil {
		return nil, fmt.Errorf("creating token directory: %w", err)
	}

	fileLock := flock.New(p.path + ".lock")

	lockCtx, cancel := context.WithTimeout(ctx, constants.LockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, constants.LockRetryInterval)
	if err != nil {
		if errors.Is(lockCtx.Err(), context.DeadlineExceeded) {
			return func() {}, nil
		}

		return nil, fmt.Errorf("%w: %w", constants.ErrLockNotAcquired, err)
	}

	if !locked {
		return func() {}, nil
	}

	return func() { _ = fileLock.Unlock() }, nil
}

func (p *FilePersister) read() (*tokenFile, error) {
	file := &tokenFile{}

	data, err := os.ReadFile(p.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	if len(data) > 0 {
		err = yaml.Unmarshal(data, file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", constants.ErrInvalidTokenRecord, err)
		}
	}

	if file.Tokens == nil {
		file.Tokens = map[string]*clarifai.Token{}
	}

	return file, nil
}

// write replaces the file atomically.
func (p *FilePersister) write(file *tokenFile) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encoding token file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary token file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() {
		_ = os.Remove(tmpName)
	}()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(constants.ConfigFilePerm)
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}

	err = os.Rename(tmpName, p.path)
	if err != nil {
		return fmt.Errorf("replacing token file: %w", err)
	}

	return nil
}
