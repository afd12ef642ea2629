// util/cache_service.go

package util

import (
	"context"

	"github.com/fayhaa-municipality/complaints-api/db"
	"github.com/fayhaa-municipality/complaints-api/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetComplaint(ctx context.Context, complaintID string) (*model.Complaint, error) {
	return db.GetCachedComplaint(ctx, complaintID)
}

func (c *CacheService) SetComplaint(ctx context.Context, complaint model.Complaint) error {
	return db.CacheComplaint(ctx, &complaint)
}

func (c *CacheService) DeleteComplaint(ctx context.Context, complaintID string) error {
	return db.DeleteCachedComplaint(ctx, complaintID)
}

func (c *CacheService) SetUser(ctx context.Context, user model.User) error {
	return db.CacheUser(ctx, &user)
}

func (c *CacheService) DeleteUser(ctx context.Context, userID string) error {
	return db.DeleteCachedUser(ctx, userID)
}

func (c *CacheService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return db.GetCachedUser(ctx, userID)
}

func (c *CacheService) GetAreas(ctx context.Context) ([]*model.Area, error) {
	return db.GetCachedAreas(ctx)
}

func (c *CacheService) SetAreas(ctx context.Context, areas []*model.Area) error {
	return db.CacheAreas(ctx, areas)
}
