package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mozartiade/archive/modules/catalog/domain/relatedlink"
	"github.com/mozartiade/archive/modules/catalog/infrastructure/persistence/models"
	"github.com/mozartiade/archive/pkg/composables"
)

const (
	relatedLinkFindQuery = `
		SELECT l.id, l.work_id, l.title, l.url, l.kind
		FROM related_links l`

	relatedLinkInsertQuery = `
		INSERT INTO related_links (id, work_id, title, url, kind)
		VALUES ($1, $2, $3, $4, $5)`

	relatedLinkUpdateQuery = `
		UPDATE related_links
		SET title = $1, url = $2, kind = $3
		WHERE id = $4`

	relatedLinkDeleteQuery = `DELETE FROM related_links WHERE id = $1`
)

type PgRelatedLinkRepository struct{}

func NewRelatedLinkRepository() relatedlink.Repository {
	return &PgRelatedLinkRepository{}
}

func (g *PgRelatedLinkRepository) queryLinks(ctx context.Context, query string, args ...interface{}) ([]*relatedlink.RelatedLink, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying related links")
	}
	defer rows.Close()

	var links []*relatedlink.RelatedLink
	for rows.Next() {
		var m models.RelatedLink
		if err := rows.Scan(&m.ID, &m.WorkID, &m.Title, &m.URL, &m.Kind); err != nil {
			return nil, errors.Wrap(err, "scanning related link")
		}
		links = append(links, toDomainRelatedLink(&m))
	}
	return links, rows.Err()
}

func (g *PgRelatedLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*relatedlink.RelatedLink, error) {
	links, err := g.queryLinks(ctx, relatedLinkFindQuery+" WHERE l.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, relatedlink.ErrNotFound
	}
	return links[0], nil
}

func (g *PgRelatedLinkRepository) ListByWork(ctx context.Context, workID uuid.UUID) ([]*relatedlink.RelatedLink, error) {
	return g.queryLinks(ctx, relatedLinkFindQuery+" WHERE l.work_id = $1 ORDER BY l.title ASC", workID)
}

func (g *PgRelatedLinkRepository) Create(ctx context.Context, data *relatedlink.RelatedLink) (*relatedlink.RelatedLink, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	created := *data
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	if _, err := tx.Exec(
		ctx,
		relatedLinkInsertQuery,
		created.ID,
		created.WorkID,
		created.Title,
		created.URL,
		string(created.Kind),
	); err != nil {
		return nil, errors.Wrap(err, "creating related link")
	}
	return &created, nil
}

func (g *PgRelatedLinkRepository) Update(ctx context.Context, data *relatedlink.RelatedLink) (*relatedlink.RelatedLink, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tag, err := tx.Exec(ctx, relatedLinkUpdateQuery, data.Title, data.URL, string(data.Kind), data.ID)
	if err != nil {
		return nil, errors.Wrap(err, "updating related link")
	}
	if tag.RowsAffected() == 0 {
		return nil, relatedlink.ErrNotFound
	}
	return data, nil
}

func (g *PgRelatedLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, relatedLinkDeleteQuery, id)
	if err != nil {
		return errors.Wrap(err, "deleting related link")
	}
	if tag.RowsAffected() == 0 {
		return relatedlink.ErrNotFound
	}
	return nil
}
