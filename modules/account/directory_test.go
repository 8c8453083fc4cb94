package account_test

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	accountsvc "github.com/dmitrymomot/userkit/svc/account"
)

// memDirectory is an in-memory accountsvc.Directory.
type memDirectory struct {
	mu    sync.Mutex
	byID  map[bson.ObjectID]accountsvc.Account
	order []bson.ObjectID
	fail  error
}

func newMemDirectory() *memDirectory {
	return &memDirectory{byID: make(map[bson.ObjectID]accountsvc.Account)}
}

func (d *memDirectory) failWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = err
}

func (d *memDirectory) FindByEmail(_ context.Context, email string) (*accountsvc.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return nil, d.fail
	}
	for _, id := range d.order {
		if acc := d.byID[id]; strings.EqualFold(acc.Email, email) {
			return &acc, nil
		}
	}
	return nil, accountsvc.ErrNotFound
}

func (d *memDirectory) FindByID(_ context.Context, id string) (*accountsvc.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return nil, d.fail
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, accountsvc.ErrNotFound
	}
	acc, ok := d.byID[oid]
	if !ok {
		return nil, accountsvc.ErrNotFound
	}
	return &acc, nil
}

func (d *memDirectory) Save(_ context.Context, acc *accountsvc.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return d.fail
	}
	if acc.ID.IsZero() {
		for _, existing := range d.byID {
			if strings.EqualFold(existing.Email, acc.Email) {
				return accountsvc.ErrEmailTaken
			}
		}
		acc.ID = bson.NewObjectID()
		d.order = append(d.order, acc.ID)
	} else if _, ok := d.byID[acc.ID]; !ok {
		return accountsvc.ErrNotFound
	}
	d.byID[acc.ID] = *acc
	return nil
}

func (d *memDirectory) CountActive(context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return 0, d.fail
	}
	var n int64
	for _, acc := range d.byID {
		if acc.Active {
			n++
		}
	}
	return n, nil
}

func (d *memDirectory) FindActivePage(_ context.Context, offset, limit int64) ([]accountsvc.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return nil, d.fail
	}
	var active []accountsvc.Account
	for _, id := range d.order {
		if acc := d.byID[id]; acc.Active {
			active = append(active, acc)
		}
	}
	if offset >= int64(len(active)) {
		return nil, nil
	}
	end := min(offset+limit, int64(len(active)))
	return slices.Clone(active[offset:end]), nil
}

var _ accountsvc.Directory = (*memDirectory)(nil)
