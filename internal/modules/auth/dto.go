package auth

import "resortbooking/internal/domain"

type RegisterCustomerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

type RegisterPartnerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

type AccountResponse struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func toAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		ID:     a.ID,
		Email:  a.Email,
		Role:   string(a.Role),
		Status: string(a.Status),
	}
}

type ProfileResponse struct {
	Account  AccountResponse `json:"account"`
	Customer *CustomerInfo   `json:"customer,omitempty"`
	Partner  *PartnerInfo    `json:"partner,omitempty"`
}

type CustomerInfo struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type PartnerInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Balance int64  `json:"balance"`
	Status  string `json:"status"`
}

func toProfileResponse(p *Profile) ProfileResponse {
	out := ProfileResponse{Account: toAccountResponse(p.Account)}
	if p.Customer != nil {
		out.Customer = &CustomerInfo{
			ID:       p.Customer.ID,
			FullName: p.Customer.FullName,
			Phone:    p.Customer.Phone,
		}
	}
	if p.Partner != nil {
		out.Partner = &PartnerInfo{
			ID:      p.Partner.ID,
			Name:    p.Partner.Name,
			Address: p.Partner.Address,
			Phone:   p.Partner.Phone,
			Balance: p.Partner.Balance,
			Status:  string(p.Partner.Status),
		}
	}
	return out
}
