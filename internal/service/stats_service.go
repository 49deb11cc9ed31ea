package service

import (
	"context"

	"bistro/internal/dto"
	"bistro/internal/model"
	"bistro/internal/repository"

	"github.com/shopspring/decimal"
)

// StatsService backs the admin dashboard. Counts are estimates and are not
// read in one snapshot.
type StatsService interface {
	AdminStats(ctx context.Context) (*dto.AdminStatsResponse, error)
	OrderStats(ctx context.Context) ([]model.OrderStat, error)
}

type statsService struct {
	users    repository.UserRepository
	menu     repository.MenuRepository
	payments repository.PaymentRepository
}

func NewStatsService(users repository.UserRepository, menu repository.MenuRepository, payments repository.PaymentRepository) StatsService {
	return &statsService{users: users, menu: menu, payments: payments}
}

func (s *statsService) AdminStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	menuItems, err := s.menu.Count(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.payments.Count(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.payments.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AdminStatsResponse{
		Users:     users,
		MenuItems: menuItems,
		Orders:    orders,
		Revenue:   roundCents(revenue),
	}, nil
}

func (s *statsService) OrderStats(ctx context.Context) ([]model.OrderStat, error) {
	rows, err := s.payments.OrderStats(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Revenue = roundCents(rows[i].Revenue)
	}
	return rows, nil
}

// float sums drift (0.1+0.2); report revenue to the cent
func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
