// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersuc contains the users UseCase which supports the users
// management use cases and authentication of users by their emails and
// passwords. Deleting a user deletes its reservations too.
package usersuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/log"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
	"github.com/momeni/flexilease/pkg/core/scram"
)

// ErrUnknownCEP must be returned (or wrapped) by AddressFinder
// implementations when a well-formed CEP has no address. Other lookup
// errors are reported as failures of the lookup service.
var ErrUnknownCEP = errors.New("cep is unknown")

// AddressFinder finds the address of a postal code (CEP).
type AddressFinder interface {
	FindAddress(ctx context.Context, cep string) (*model.Address, error)
}

// Params lists the attributes of a user as given by a client. The
// Birth date must follow the DD/MM/YYYY layout. The Password may be
// left empty during an update in order to keep the current password.
type Params struct {
	Name      string
	CPF       string
	Birth     string
	Email     string
	Password  string
	CEP       string
	Qualified model.Qualification
}

// UseCase represents a users use case.
type UseCase struct {
	pool           repo.Pool
	usersrp        repo.Users
	reservationsrp repo.Reservations
	hasher         scram.HashVerifier
	addresses      AddressFinder

	minimumAge       int
	hashIterations   int
	defaultPageLimit int
	maxPageLimit     int
	now              func() time.Time
}

// New instantiates a users use case.
// Required parameters are passed individually, while optional ones
// are passed as functional options.
func New(
	p repo.Pool,
	u repo.Users,
	r repo.Reservations,
	h scram.HashVerifier,
	af AddressFinder,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:           p,
		usersrp:        u,
		reservationsrp: r,
		hasher:         h,
		addresses:      af,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.minimumAge == 0 {
		uc.minimumAge = 18
	}
	if uc.hashIterations == 0 {
		uc.hashIterations = 15000
	}
	if uc.maxPageLimit == 0 {
		uc.maxPageLimit = 100
	}
	if uc.defaultPageLimit == 0 {
		uc.defaultPageLimit = min(10, uc.maxPageLimit)
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// prepare validates p and converts it to a user model, looking up its
// address. The ID and Password fields are left for the caller.
func (users *UseCase) prepare(
	ctx context.Context, p *Params,
) (*model.User, error) {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if at := strings.IndexByte(email, '@'); at <= 0 || at == len(email)-1 {
		errs = append(errs, fmt.Errorf("email %q is not valid", p.Email))
	}
	cpf := digitsOnly(p.CPF)
	if !model.ValidCPF(cpf) {
		errs = append(errs, fmt.Errorf("cpf %q is not valid", p.CPF))
	}
	cep := digitsOnly(p.CEP)
	if len(cep) != 8 {
		errs = append(errs, fmt.Errorf("cep %q is not valid", p.CEP))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, cerr.BadRequest(err)
	}
	birth, err := model.ParseDate(p.Birth)
	if err != nil {
		return nil, cerr.InvalidDate("birth", err)
	}
	today := model.DateOf(users.now())
	if age := today.YearsSince(birth); age < users.minimumAge {
		return nil, cerr.BadRequest(fmt.Errorf(
			"age (%d) is less than %d", age, users.minimumAge,
		))
	}
	q := model.QualificationNo
	if p.Qualified.IsQualified() {
		q = model.QualificationYes
	}
	addr, err := users.addresses.FindAddress(ctx, cep)
	switch {
	case errors.Is(err, ErrUnknownCEP):
		return nil, cerr.NotFound("address", err)
	case err != nil:
		return nil, failure(ctx, "finding address", err)
	}
	return &model.User{
		Name:      strings.TrimSpace(p.Name),
		CPF:       cpf,
		Birth:     birth,
		Email:     email,
		CEP:       cep,
		Qualified: q,
		Address:   *addr,
	}, nil
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// checkUnique returns a cerr Conflict error if another user than u
// has the same email or CPF.
func checkUnique(
	ctx context.Context, q repo.UsersTxQueryer, u *model.User,
) error {
	for _, p := range []model.Predicate{
		model.Equal(model.FieldEmail, u.Email),
		model.Equal(model.FieldCPF, u.CPF),
	} {
		o, err := q.FindOne(ctx, []model.Predicate{p})
		switch {
		case cerr.KindOf(err) == cerr.KindNotFound:
			continue
		case err != nil:
			return fmt.Errorf("finding user by %s: %w", p.Field, err)
		case o.ID != u.ID:
			return cerr.Conflict(p.Field, fmt.Errorf(
				"%s is already registered", p.Field,
			))
		}
	}
	return nil
}

// Create use case registers a new user. The CPF must be valid, the
// user must be at least as old as the minimum age, and the email and
// CPF may not be registered already. The address is looked up by the
// CEP and the password is stored as a SCRAM hash.
func (users *UseCase) Create(
	ctx context.Context, p *Params,
) (*model.User, error) {
	if p.Password == "" {
		return nil, cerr.BadRequest(errors.New("password is required"))
	}
	u, err := users.prepare(ctx, p)
	if err != nil {
		return nil, err
	}
	u.ID = uuid.New()
	u.Password, err = users.hasher.Hash(p.Password, "", users.hashIterations)
	if err != nil {
		return nil, cerr.BadRequest(fmt.Errorf("hashing password: %w", err))
	}
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := users.usersrp.Tx(tx)
			if err := checkUnique(ctx, q, u); err != nil {
				return err
			}
			return q.Create(ctx, u)
		})
	})
	if err != nil {
		return nil, failure(ctx, "creating user", err)
	}
	log.Info(ctx, "user is created", log.UUID("id", u.ID))
	return u, nil
}

// Update use case replaces attributes of the uid user after performing
// the same checks as Create. An empty password keeps the current one.
func (users *UseCase) Update(
	ctx context.Context, uid uuid.UUID, p *Params,
) (*model.User, error) {
	u, err := users.prepare(ctx, p)
	if err != nil {
		return nil, err
	}
	u.ID = uid
	if p.Password != "" {
		u.Password, err = users.hasher.Hash(
			p.Password, "", users.hashIterations,
		)
		if err != nil {
			return nil, cerr.BadRequest(
				fmt.Errorf("hashing password: %w", err),
			)
		}
	}
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := users.usersrp.Tx(tx)
			old, err := q.Get(ctx, uid)
			if err != nil {
				return err
			}
			if u.Password == "" {
				u.Password = old.Password
			}
			if err := checkUnique(ctx, q, u); err != nil {
				return err
			}
			return q.Update(ctx, u)
		})
	})
	if err != nil {
		return nil, failure(ctx, "updating user", err)
	}
	log.Info(ctx, "user is updated", log.UUID("id", u.ID))
	return u, nil
}

// Get use case finds the uid user.
func (users *UseCase) Get(
	ctx context.Context, uid uuid.UUID,
) (u *model.User, err error) {
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = users.usersrp.Conn(c).Get(ctx, uid)
		return err
	})
	if err != nil {
		return nil, failure(ctx, "getting user", err)
	}
	return u, nil
}

// List use case returns the p page of users which match f.
func (users *UseCase) List(
	ctx context.Context, f model.UserFilter, p model.Page,
) (*model.PageOf[model.User], error) {
	p = p.Bounded(users.defaultPageLimit, users.maxPageLimit)
	var items []model.User
	var total int64
	err := users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (
		err error,
	) {
		q := users.usersrp.Conn(c)
		items, total, err = q.List(ctx, f.Predicates(), p)
		return err
	})
	if err != nil {
		return nil, failure(ctx, "listing users", err)
	}
	return model.NewPageOf(items, total, p), nil
}

// Delete use case removes the uid user and all of its reservations in
// one transaction. Failing to delete any of those reservations aborts
// the whole operation.
func (users *UseCase) Delete(ctx context.Context, uid uuid.UUID) error {
	var n int
	err := users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := users.usersrp.Tx(tx)
			if _, err := q.Get(ctx, uid); err != nil {
				return err
			}
			rq := users.reservationsrp.Tx(tx)
			rs, err := rq.ListByUser(ctx, uid)
			if err != nil {
				return fmt.Errorf("listing user reservations: %w", err)
			}
			for _, r := range rs {
				if err := rq.Delete(ctx, r.ID); err != nil {
					return fmt.Errorf(
						"deleting reservation %s: %w", r.ID, err,
					)
				}
			}
			n = len(rs)
			return q.Delete(ctx, uid)
		})
	})
	if err != nil {
		return failure(ctx, "deleting user", err)
	}
	log.Info(
		ctx, "user is deleted",
		log.UUID("id", uid),
		slog.Int("reservations", n),
	)
	return nil
}

// Authenticate use case finds a user by email and verifies password.
// Unknown emails and wrong passwords are reported similarly as a cerr
// Unauthenticated error.
func (users *UseCase) Authenticate(
	ctx context.Context, email, password string,
) (u *model.User, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = users.usersrp.Conn(c).FindOne(ctx, []model.Predicate{
			model.Equal(model.FieldEmail, email),
		})
		return err
	})
	errBad := cerr.Unauthenticated(errors.New("wrong email or password"))
	switch {
	case cerr.KindOf(err) == cerr.KindNotFound:
		return nil, errBad
	case err != nil:
		return nil, failure(ctx, "finding user", err)
	}
	ok, err := users.hasher.Verify(password, u.Password)
	if err != nil {
		log.Warn(
			ctx, "stored password hash is malformed",
			log.UUID("id", u.ID),
			log.Err("err", err),
		)
		return nil, errBad
	}
	if !ok {
		return nil, errBad
	}
	return u, nil
}

func failure(ctx context.Context, op string, err error) error {
	err = cerr.StoreFailure(err)
	if cerr.KindOf(err) == cerr.KindStoreFailure {
		log.Error(ctx, op+" failed", log.Err("err", err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
