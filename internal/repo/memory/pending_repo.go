package memory

import (
	"sync"
	"time"

	"github.com/ivankudzin/guildbot/internal/domain/model"
)

// PendingRepo keeps role selections in process memory until the user joins.
// Entries are only removed by Take; a user who never joins stays here until
// the process restarts.
type PendingRepo struct {
	mu      sync.Mutex
	entries map[string]model.PendingAssignment
	now     func() time.Time
}

func NewPendingRepo() *PendingRepo {
	return &PendingRepo{
		entries: make(map[string]model.PendingAssignment),
		now:     time.Now,
	}
}

func (r *PendingRepo) Put(userID, roleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[userID] = model.PendingAssignment{
		UserID:     userID,
		RoleID:     roleID,
		SelectedAt: r.now().UTC(),
	}
}

func (r *PendingRepo) Take(userID string) (model.PendingAssignment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[userID]
	if !ok {
		return model.PendingAssignment{}, false
	}
	delete(r.entries, userID)
	return entry, true
}

func (r *PendingRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
