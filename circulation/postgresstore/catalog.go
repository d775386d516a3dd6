package postgresstore

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresstore/internal/adapters"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	operationLoadBook   = "load_book"
	operationLoadBooks  = "load_books"
	operationLoadMember = "load_member"
)

var bookColumns = []any{
	"id", "owner_id", "title", "author", "isbn", "category", "stock", "status", "price",
	"version", "created_at", "updated_at", "deleted_at",
}

var memberColumns = []any{
	"id", "owner_id", "name", "email", "status", "version", "created_at", "deleted_at",
}

// LoadBook returns a book that is not soft-deleted, circulation.ErrNotFound otherwise.
func (s Store) LoadBook(ctx context.Context, ownerID, bookID uuid.UUID) (core.Book, error) {
	observer, ctx := s.startOperation(ctx, spanNameLoad, operationLoadBook, ownerID)

	books, err := s.selectBooks(ctx, ownerID, []uuid.UUID{bookID})
	if err != nil {
		observer.failure(err)
		return core.Book{}, err
	}

	if len(books) == 0 {
		observer.failure(circulation.ErrNotFound)
		return core.Book{}, circulation.ErrNotFound
	}

	observer.success(1)

	return books[0], nil
}

// LoadBooks returns the books among bookIDs that exist and are not soft-deleted.
// Missing ids are left out; callers compare against what they asked for.
func (s Store) LoadBooks(ctx context.Context, ownerID uuid.UUID, bookIDs []uuid.UUID) (core.Books, error) {
	observer, ctx := s.startOperation(ctx, spanNameLoad, operationLoadBooks, ownerID)

	if len(bookIDs) == 0 {
		observer.success(0)
		return core.Books{}, nil
	}

	books, err := s.selectBooks(ctx, ownerID, bookIDs)
	if err != nil {
		observer.failure(err)
		return nil, err
	}

	observer.success(len(books))

	return books, nil
}

func (s Store) selectBooks(ctx context.Context, ownerID uuid.UUID, bookIDs []uuid.UUID) (core.Books, error) {
	selectStmt := dialect().
		From(tableBooks).
		Select(bookColumns...).
		Where(
			goqu.C(colOwnerID).Eq(ownerID.String()),
			goqu.C(colID).In(idStrings(bookIDs)),
			goqu.C(colDeletedAt).IsNull(),
		).
		Order(goqu.C(colID).Asc())

	books := core.Books{}

	_, err := s.query(ctx, s.db, tableBooks, selectStmt, func(rows adapters.DBRows) error {
		book, err := scanBook(rows)
		if err != nil {
			return err
		}

		books = append(books, book)

		return nil
	})

	return books, err
}

// LoadMember returns a member that is not soft-deleted, circulation.ErrNotFound otherwise.
func (s Store) LoadMember(ctx context.Context, ownerID, memberID uuid.UUID) (core.Member, error) {
	observer, ctx := s.startOperation(ctx, spanNameLoad, operationLoadMember, ownerID)

	selectStmt := dialect().
		From(tableMembers).
		Select(memberColumns...).
		Where(
			goqu.C(colOwnerID).Eq(ownerID.String()),
			goqu.C(colID).Eq(memberID.String()),
			goqu.C(colDeletedAt).IsNull(),
		)

	var member core.Member

	count, err := s.query(ctx, s.db, tableMembers, selectStmt, func(rows adapters.DBRows) error {
		var scanErr error
		member, scanErr = scanMember(rows)

		return scanErr
	})
	if err != nil {
		observer.failure(err)
		return core.Member{}, err
	}

	if count == 0 {
		observer.failure(circulation.ErrNotFound)
		return core.Member{}, circulation.ErrNotFound
	}

	observer.success(count)

	return member, nil
}

func scanBook(rows adapters.DBRows) (core.Book, error) {
	var book core.Book
	var status string

	err := rows.Scan(
		&book.ID, &book.OwnerID, &book.Title, &book.Author, &book.ISBN, &book.Category,
		&book.Stock, &status, &book.Price, &book.Version, &book.CreatedAt, &book.UpdatedAt, &book.DeletedAt,
	)
	book.Status = core.BookStatus(status)

	return book, err
}

func scanMember(rows adapters.DBRows) (core.Member, error) {
	var member core.Member
	var status string

	err := rows.Scan(
		&member.ID, &member.OwnerID, &member.Name, &member.Email, &status,
		&member.Version, &member.CreatedAt, &member.DeletedAt,
	)
	member.Status = core.MemberStatus(status)

	return member, err
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}

	return out
}
