package userlist

import (
	"errors"

	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

var ErrInvalidDialog = errors.New("unknown dialog kind")

// DialogKind — вид модального окна над записью.
type DialogKind string

const (
	DialogEdit   DialogKind = "edit"
	DialogBlock  DialogKind = "block"
	DialogDelete DialogKind = "delete"
)

func (k DialogKind) Valid() bool {
	switch k {
	case DialogEdit, DialogBlock, DialogDelete:
		return true
	}
	return false
}

// Dialog — открытое окно и запись, к которой оно относится.
type Dialog struct {
	Kind   DialogKind        `json:"kind"`
	Record models.UserRecord `json:"record"`
}

// OpenDialog открывает окно для записи текущей страницы.
func (c *Controller) OpenDialog(kind DialogKind, id string) (Dialog, error) {
	if !kind.Valid() {
		return Dialog{}, ErrInvalidDialog
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.view.IndexOf(id)
	if idx < 0 {
		return Dialog{}, ErrRecordNotFound
	}
	d := Dialog{Kind: kind, Record: c.view.Records[idx].Clone()}
	c.dialog = &d
	c.notifyLocked()
	return d, nil
}

// CloseDialog закрывает окно; без открытого окна ничего не делает.
func (c *Controller) CloseDialog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialog == nil {
		return
	}
	c.dialog = nil
	c.notifyLocked()
}
