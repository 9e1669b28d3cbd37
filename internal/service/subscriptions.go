package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

const alreadySubscribedMsg = "You are already subscribed to this author."

// SubscriptionService manages which authors a user follows.
type SubscriptionService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionService(db *gorm.DB, log *logger.Logger) *SubscriptionService {
	return &SubscriptionService{db: db, log: log.With("service", "SubscriptionService")}
}

// Subscribe makes the viewer follow authorID. recipesLimit caps the recipes
// listed in the response; zero or less lists all of them.
func (s *SubscriptionService) Subscribe(ctx context.Context, viewer types.Viewer, authorID uuid.UUID, recipesLimit int) (*types.FollowRead, error) {
	if !viewer.Authenticated {
		return nil, apperr.Unauthorized("Authentication credentials were not provided.")
	}
	author, err := s.user(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author.ID == viewer.UserID {
		err := apperr.Invalid(apperr.CodeSelfSubscription, "You cannot subscribe to yourself.")
		metrics.RecordRelationToggle("subscription", "add", outcomeOf(err))
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Subscription{}).
			Where("user_id = ? AND author_id = ?", viewer.UserID, authorID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.Invalid(apperr.CodeAlreadyExists, alreadySubscribedMsg)
		}
		return tx.Omit(clause.Associations).Create(&models.Subscription{UserID: viewer.UserID, AuthorID: authorID}).Error
	})
	if err != nil {
		err = classify(err, "subscribe", apperr.CodeAlreadyExists, alreadySubscribedMsg)
		metrics.RecordRelationToggle("subscription", "add", outcomeOf(err))
		return nil, err
	}
	metrics.RecordRelationToggle("subscription", "add", metrics.OutcomeOK)

	follows, err := s.follows(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &follows[0], nil
}

// Unsubscribe removes the viewer's subscription to authorID.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, viewer types.Viewer, authorID uuid.UUID) error {
	if !viewer.Authenticated {
		return apperr.Unauthorized("Authentication credentials were not provided.")
	}
	if _, err := s.user(ctx, authorID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", viewer.UserID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("unsubscribe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		err := apperr.Invalid(apperr.CodeRelationNotFound, "You are not subscribed to this author.")
		metrics.RecordRelationToggle("subscription", "remove", outcomeOf(err))
		return err
	}
	metrics.RecordRelationToggle("subscription", "remove", metrics.OutcomeOK)
	return nil
}

// List returns one page of the authors the viewer follows.
func (s *SubscriptionService) List(ctx context.Context, viewer types.Viewer, page types.PageQuery, recipesLimit int) ([]types.FollowRead, int64, error) {
	if !viewer.Authenticated {
		return nil, 0, apperr.Unauthorized("Authentication credentials were not provided.")
	}

	db := s.db.WithContext(ctx)
	followed := db.Model(&models.Subscription{}).Select("author_id").Where("user_id = ?", viewer.UserID)
	query := db.Model(&models.User{}).Where("id IN (?)", followed).Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}

	var authors []models.User
	if err := query.Order("username").Offset(page.Offset()).Limit(page.Limit).Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}

	follows, err := s.follows(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return follows, count, nil
}

// follows projects authors the viewer is subscribed to.
func (s *SubscriptionService) follows(ctx context.Context, authors []models.User, recipesLimit int) ([]types.FollowRead, error) {
	out := make([]types.FollowRead, 0, len(authors))
	if len(authors) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}

	var counts []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", ids).
		Group("author_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count author recipes: %w", err)
	}
	totals := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		totals[c.AuthorID] = c.Total
	}

	recipes, err := s.latestRecipes(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}
	byAuthor := make(map[uuid.UUID][]types.RecipeShort, len(authors))
	for _, r := range recipes {
		byAuthor[r.AuthorID] = append(byAuthor[r.AuthorID], recipeShort(r))
	}

	for _, a := range authors {
		shorts := byAuthor[a.ID]
		if shorts == nil {
			shorts = []types.RecipeShort{}
		}
		out = append(out, types.FollowRead{
			UserRead:     userRead(a, true),
			Recipes:      shorts,
			RecipesCount: totals[a.ID],
		})
	}
	return out, nil
}

// latestRecipes loads the newest recipes of every given author in one query,
// at most limit per author when limit is positive.
func (s *SubscriptionService) latestRecipes(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]models.Recipe, error) {
	db := s.db.WithContext(ctx)
	query := db.Model(&models.Recipe{}).Where("author_id IN ?", authorIDs)
	if limit > 0 {
		ranked := db.Model(&models.Recipe{}).
			Select("*, ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY pub_date DESC, id) AS author_rank").
			Where("author_id IN ?", authorIDs)
		query = db.Table("(?) AS ranked", ranked).Where("author_rank <= ?", limit)
	}

	var recipes []models.Recipe
	if err := query.Order("pub_date DESC").Order("id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list author recipes: %w", err)
	}
	return recipes, nil
}

func (s *SubscriptionService) user(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}
