package services

import (
	"fmt"

	"github.com/creative2/guest-feedback-server/models"
)

// HotelScope là tập khách sạn một nhân viên được thấy. Unrestricted là
// sentinel cho super_admin — không bao giờ materialize thành danh sách.
type HotelScope struct {
	Unrestricted bool
	HotelIDs     []uint
}

// Allows kiểm tra quyền trên một hotel cụ thể.
func (s HotelScope) Allows(hotelID uint) bool {
	if s.Unrestricted {
		return true
	}
	for _, id := range s.HotelIDs {
		if id == hotelID {
			return true
		}
	}
	return false
}

// Empty: scope rỗng (user chưa được gán hotel nào) — hợp lệ, nghĩa là
// không thấy gì.
func (s HotelScope) Empty() bool {
	return !s.Unrestricted && len(s.HotelIDs) == 0
}

// MembershipStore đọc bảng user_hotels.
type MembershipStore interface {
	HotelIDsByUser(userID uint) ([]uint, error)
}

// MembershipResolver tính scope cho một principal.
type MembershipResolver struct {
	store MembershipStore
}

func NewMembershipResolver(store MembershipStore) *MembershipResolver {
	return &MembershipResolver{store: store}
}

func (r *MembershipResolver) ResolveScope(user models.User) (HotelScope, error) {
	if user.IsSuperAdmin() {
		return HotelScope{Unrestricted: true}, nil
	}
	ids, err := r.store.HotelIDsByUser(user.ID)
	if err != nil {
		return HotelScope{}, fmt.Errorf("đọc user_hotels: %w", err)
	}
	return HotelScope{HotelIDs: ids}, nil
}
