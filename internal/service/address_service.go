package service

import (
	"context"
	"fmt"
	"time"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/repository"

	"github.com/google/uuid"
)

type AddressService interface {
	List(ctx context.Context, userID uuid.UUID) (domain.AddressBook, error)
	Add(ctx context.Context, userID uuid.UUID, addr domain.Address) (domain.AddressBook, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, patch domain.AddressPatch) (domain.AddressBook, error)
	Remove(ctx context.Context, userID, addressID uuid.UUID) (domain.AddressBook, error)
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (domain.AddressBook, error)
}

type addressService struct {
	users repository.UserRepository
	now   func() time.Time
}

func NewAddressService(users repository.UserRepository) AddressService {
	return &addressService{users: users, now: time.Now}
}

func (s *addressService) List(ctx context.Context, userID uuid.UUID) (domain.AddressBook, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load addresses: %w", err)
	}
	return user.Addresses, nil
}

func (s *addressService) Add(ctx context.Context, userID uuid.UUID, addr domain.Address) (domain.AddressBook, error) {
	return s.users.UpdateAddresses(ctx, userID, func(book *domain.AddressBook) error {
		_, err := book.Add(addr, s.now().UTC())
		return err
	})
}

func (s *addressService) Update(ctx context.Context, userID, addressID uuid.UUID, patch domain.AddressPatch) (domain.AddressBook, error) {
	return s.users.UpdateAddresses(ctx, userID, func(book *domain.AddressBook) error {
		_, err := book.Update(addressID, patch)
		return err
	})
}

func (s *addressService) Remove(ctx context.Context, userID, addressID uuid.UUID) (domain.AddressBook, error) {
	return s.users.UpdateAddresses(ctx, userID, func(book *domain.AddressBook) error {
		return book.Remove(addressID)
	})
}

func (s *addressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (domain.AddressBook, error) {
	return s.users.UpdateAddresses(ctx, userID, func(book *domain.AddressBook) error {
		_, err := book.SetDefault(addressID)
		return err
	})
}
