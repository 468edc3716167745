package repository

import (
	"context"

	authdomain "taskflow-backend/internal/auth/domain"
	"taskflow-backend/internal/state"
)

// userRepository implements UserRepository on top of the state container
type userRepository struct {
	state *state.Container
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(container *state.Container) UserRepository {
	return &userRepository{
		state: container,
	}
}

func (r *userRepository) Current(ctx context.Context) (*authdomain.User, error) {
	snap := r.state.Current()
	if snap.User == nil {
		return nil, nil
	}
	user := *snap.User
	return &user, nil
}

func (r *userRepository) Replace(ctx context.Context, user *authdomain.User) error {
	return r.state.Update(ctx, func(s *state.Snapshot) error {
		u := *user
		s.User = &u
		s.Session = state.DefaultSession()
		return nil
	})
}

func (r *userRepository) Clear(ctx context.Context) error {
	return r.state.Update(ctx, func(s *state.Snapshot) error {
		s.User = nil
		s.Session = state.DefaultSession()
		return nil
	})
}
