package actsrvc

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type InMemActivityRepo struct {
	mu   sync.RWMutex
	acts map[uuid.UUID]Activity
}

func NewInMemActivityRepo() *InMemActivityRepo {
	return &InMemActivityRepo{acts: make(map[uuid.UUID]Activity)}
}

func (r *InMemActivityRepo) Store(ctx context.Context, act Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acts[act.UUID] = act
	return nil
}

func (r *InMemActivityRepo) Get(ctx context.Context, id uuid.UUID) (*Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if act, ok := r.acts[id]; ok {
		return &act, nil
	}
	return nil, nil
}

func (r *InMemActivityRepo) List(ctx context.Context) ([]Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Activity, 0, len(r.acts))
	for _, act := range r.acts {
		res = append(res, act)
	}
	return res, nil
}

type participantKey struct {
	activity uuid.UUID
	user     uuid.UUID
}

type InMemParticipantRepo struct {
	mu           sync.Mutex
	participants map[participantKey]Participant
}

func NewInMemParticipantRepo() *InMemParticipantRepo {
	return &InMemParticipantRepo{participants: make(map[participantKey]Participant)}
}

func (r *InMemParticipantRepo) CompareAndInsert(ctx context.Context, p Participant, maxParticipants int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := participantKey{activity: p.ActivityUUID, user: p.UserUUID}
	if _, ok := r.participants[key]; ok {
		return ErrDuplicateKey
	}
	if maxParticipants > 0 {
		count := 0
		for k := range r.participants {
			if k.activity == p.ActivityUUID {
				count++
			}
		}
		if count >= maxParticipants {
			return ErrCapacityReached
		}
	}
	r.participants[key] = p
	return nil
}

func (r *InMemParticipantRepo) Exists(ctx context.Context, activityID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.participants[participantKey{activity: activityID, user: userID}]
	return ok, nil
}
