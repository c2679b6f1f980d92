package service

import (
	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/layout"
	"github.com/mdouchement/blinkreg/internal/model"
	"github.com/pkg/errors"
)

// Wallet returns the deposit ledger of the given address.
// Unknown addresses have an empty wallet.
func Wallet(db database.Client, address string) (*model.Wallet, error) {
	if _, err := layout.ParseAddress(address); err != nil {
		return nil, err
	}
	return findWallet(db, address, 0)
}

// lock adds the deposit of a newly opened account to the owner's wallet.
func lock(tx database.Client, owner string, lamports uint64, now int64) error {
	wallet, err := findWallet(tx, owner, now)
	if err != nil {
		return err
	}

	wallet.Locked += lamports
	wallet.SetUpdatedAt(now)
	return errors.Wrap(tx.Save(wallet), "could not lock deposit")
}

// move transfers the deposit of an account to its new owner's wallet.
func move(tx database.Client, from, to string, lamports uint64, now int64) error {
	source, err := findWallet(tx, from, now)
	if err != nil {
		return err
	}
	source.Locked = unlock(source.Locked, lamports)
	source.SetUpdatedAt(now)
	if err = tx.Save(source); err != nil {
		return errors.Wrap(err, "could not move deposit")
	}

	return lock(tx, to, lamports, now)
}

// refund returns the deposit of a closed account to the owner's wallet.
func refund(tx database.Client, owner string, lamports uint64, now int64) error {
	wallet, err := findWallet(tx, owner, now)
	if err != nil {
		return err
	}

	wallet.Locked = unlock(wallet.Locked, lamports)
	wallet.Refunded += lamports
	wallet.SetUpdatedAt(now)
	return errors.Wrap(tx.Save(wallet), "could not refund deposit")
}

func findWallet(tx database.Client, address string, now int64) (*model.Wallet, error) {
	wallet, err := tx.FindWallet(address)
	if err == nil {
		return wallet, nil
	}
	if !tx.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}

	wallet = &model.Wallet{}
	wallet.ID = address
	wallet.SetCreatedAt(now)
	return wallet, nil
}

func unlock(locked, lamports uint64) uint64 {
	if locked < lamports {
		return 0
	}
	return locked - lamports
}
