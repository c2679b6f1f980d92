package service

import (
	"context"
	"unicode/utf8"

	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/layout"
	"github.com/mdouchement/blinkreg/internal/model"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Blink field bounds, in characters.
const (
	MaxBlinkNameLength        = 50
	MaxBlinkDescriptionLength = 200
)

type (
	// CreateBlinkParams are used to create a blink.
	CreateBlinkParams struct {
		Params
		Account     string `json:"account"` // Generated when empty
		Mint        string `json:"mint"`
		Name        string `json:"name"`
		Description string `json:"description"`
		BlinkType   string `json:"blink_type"`
		IsNFT       bool   `json:"is_nft"`
		IsDonation  bool   `json:"is_donation"`
		IsGift      bool   `json:"is_gift"`
		IsPayment   bool   `json:"is_payment"`
		IsPoll      bool   `json:"is_poll"`
	}

	// UpdateBlinkParams are used to update a blink.
	// Nil fields are left untouched.
	UpdateBlinkParams struct {
		Params
		Address     string  `json:"-"`
		Name        *string `json:"name"`
		Description *string `json:"description"`
		BlinkType   *string `json:"blink_type"`
	}

	// DeleteParams are used to close an account.
	DeleteParams struct {
		Params
		Address string `json:"-"`
	}

	// A BlinkRegistry manages blink accounts.
	BlinkRegistry struct {
		db          database.Client
		mints       MintVerifier
		strictTypes bool
		now         func() int64
		log         logrus.FieldLogger
	}
)

// NewBlinkRegistry returns a new BlinkRegistry.
func NewBlinkRegistry(db database.Client, cfg Config) *BlinkRegistry {
	cfg = cfg.defaults()
	return &BlinkRegistry{
		db:          db,
		mints:       cfg.Mints,
		strictTypes: cfg.StrictTypes,
		now:         func() int64 { return cfg.Clock().Unix() },
		log:         cfg.Logger,
	}
}

// Create creates a new blink owned by the signer.
func (s *BlinkRegistry) Create(ctx context.Context, params CreateBlinkParams) (*model.Blink, error) {
	if err := s.validate(&params.Name, &params.Description, &params.BlinkType); err != nil {
		return nil, err
	}

	account, err := address(params.Account)
	if err != nil {
		return nil, errors.Wrap(err, "account")
	}
	if err = s.mints.VerifyMint(ctx, params.Mint); err != nil {
		return nil, errors.Wrap(err, "mint")
	}

	blink := &model.Blink{
		Owner:       params.Signer,
		Mint:        params.Mint,
		Name:        params.Name,
		Description: params.Description,
		BlinkType:   params.BlinkType,
		IsNFT:       params.IsNFT,
		IsDonation:  params.IsDonation,
		IsGift:      params.IsGift,
		IsPayment:   params.IsPayment,
		IsPoll:      params.IsPoll,
		Lamports:    layout.RentExemptMinimum(layout.BlinkSpace),
	}
	blink.ID = account

	err = s.db.Atomic(func(tx database.Client) error {
		exists, err := tx.AccountExists(blink.ID)
		if err != nil {
			return errors.Wrap(err, "could not get access to database")
		}
		if exists {
			return regerror.ErrAccountAlreadyInUse
		}

		now := s.now()
		blink.SetCreatedAt(now)
		blink.SetUpdatedAt(now)

		if _, err = layout.EncodeBlink(blink); err != nil {
			return err
		}

		if err = tx.Save(blink); err != nil {
			return errors.Wrap(err, "could not save blink")
		}
		return lock(tx, blink.Owner, blink.Lamports, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"blink": blink.ID, "owner": blink.Owner}).Info("blink created")
	return blink, nil
}

// Update overwrites the supplied fields of the blink.
func (s *BlinkRegistry) Update(params UpdateBlinkParams) (*model.Blink, error) {
	var blink *model.Blink

	err := s.db.Atomic(func(tx database.Client) (err error) {
		blink, err = tx.FindBlink(params.Address)
		if err != nil {
			return notInitialized(tx, err)
		}
		if err = checkOwner(blink.Owner, params.Signer); err != nil {
			return err
		}

		if err = s.validate(params.Name, params.Description, params.BlinkType); err != nil {
			return err
		}

		if params.Name != nil {
			blink.Name = *params.Name
		}
		if params.Description != nil {
			blink.Description = *params.Description
		}
		if params.BlinkType != nil {
			blink.BlinkType = *params.BlinkType
		}
		blink.SetUpdatedAt(max(s.now(), blink.CreatedAt))

		if _, err = layout.EncodeBlink(blink); err != nil {
			return err
		}
		return errors.Wrap(tx.Save(blink), "could not save blink")
	})
	if err != nil {
		return nil, err
	}

	return blink, nil
}

// Delete closes the blink and refunds its deposit to the owner.
func (s *BlinkRegistry) Delete(params DeleteParams) error {
	return s.db.Atomic(func(tx database.Client) error {
		blink, err := tx.FindBlink(params.Address)
		if err != nil {
			return notInitialized(tx, err)
		}
		if err = checkOwner(blink.Owner, params.Signer); err != nil {
			return err
		}

		if err = tx.Delete(blink); err != nil {
			return errors.Wrap(err, "could not delete blink")
		}
		return refund(tx, blink.Owner, blink.Lamports, s.now())
	})
}

// Get returns the blink stored at the given address.
func (s *BlinkRegistry) Get(address string) (*model.Blink, error) {
	blink, err := s.db.FindBlink(address)
	if err != nil {
		return nil, notInitialized(s.db, err)
	}
	return blink, nil
}

// List returns the blinks owned by the given address.
func (s *BlinkRegistry) List(owner string) ([]*model.Blink, error) {
	return s.db.FindBlinksByOwner(owner)
}

// validate checks the non-nil fields.
func (s *BlinkRegistry) validate(name, description, blinkType *string) error {
	if name != nil && utf8.RuneCountInString(*name) > MaxBlinkNameLength {
		return regerror.ErrNameTooLong
	}
	if description != nil && utf8.RuneCountInString(*description) > MaxBlinkDescriptionLength {
		return regerror.ErrDescriptionTooLong
	}
	if blinkType != nil && s.strictTypes && !validBlinkType(*blinkType) {
		return regerror.ErrInvalidBlinkType
	}
	return nil
}

func validBlinkType(t string) bool {
	for _, bt := range model.BlinkTypes {
		if t == bt {
			return true
		}
	}
	return false
}
