package service

import (
	"inventory-dashboard/internal/model"
	"inventory-dashboard/internal/repository"
)

type DashboardService interface {
	GetDashboardStats() model.DashboardStats
}

type dashboardService struct {
	productRepo repository.ProductRepository
}

func NewDashboardService(pRepo repository.ProductRepository) DashboardService {
	return &dashboardService{productRepo: pRepo}
}

func (s *dashboardService) GetDashboardStats() model.DashboardStats {
	return model.ComputeStats(s.productRepo.FindAll())
}
