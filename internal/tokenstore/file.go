package tokenstore

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// File хранит токен в файле с правами 0600. Если задан ключ шифрования,
// содержимое запечатывается XChaCha20-Poly1305.
type File struct {
	path string
	key  []byte
}

// NewFile создаёт файловое хранилище. Пустой secret отключает шифрование.
func NewFile(path, secret string) *File {
	f := &File{path: path}
	if secret != "" {
		sum := sha256.Sum256([]byte(secret))
		f.key = sum[:]
	}
	return f
}

func (f *File) Load(_ context.Context) (string, bool, error) {
	const op = "tokenstore.File.Load"

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return "", false, nil
	}
	if f.key == nil {
		return raw, true, nil
	}
	token, err := f.open(raw)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return token, true, nil
}

func (f *File) Save(_ context.Context, token string) error {
	const op = "tokenstore.File.Save"

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	payload := token
	if f.key != nil {
		sealed, err := f.seal(token)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		payload = sealed
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(payload), 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (f *File) Delete(_ context.Context) error {
	const op = "tokenstore.File.Delete"

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (f *File) seal(token string) (string, error) {
	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(token)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := aead.Seal(nonce, nonce, []byte(token), []byte(Key))
	return base64.StdEncoding.EncodeToString(out), nil
}

func (f *File) open(raw string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return "", err
	}
	if len(data) < aead.NonceSize() {
		return "", errors.New("sealed token too short")
	}
	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(Key))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
