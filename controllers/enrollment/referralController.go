package enrollmentController

import (
	"fmt"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// creditReferral resolves the referrer by code and bumps their referral
// count by exactly one. The increment happens in the database so two
// concurrent approvals for different requests both land.
func creditReferral(db *gorm.DB, code string) (uint, error) {
	var referrer models.User
	if err := db.Where("referral_code = ? AND is_deleted = ?", code, false).First(&referrer).Error; err != nil {
		return 0, fmt.Errorf("referrer with code %q not found", code)
	}

	if err := db.Model(&models.User{}).Where("id = ?", referrer.ID).
		UpdateColumn("referral_count", gorm.Expr("referral_count + 1")).Error; err != nil {
		return 0, err
	}

	return referrer.ReferralCount + 1, nil
}

// GetMyReferral returns the current user's referral code and credit count,
// generating a code on first access
func GetMyReferral(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.ReferralCode == nil || *user.ReferralCode == "" {
		code := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:10]
		if err := db.Model(&user).Update("referral_code", code).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate referral code!", nil)
		}
		user.ReferralCode = &code
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Referral details fetched!", fiber.Map{
		"referralCode":  user.ReferralCode,
		"referralCount": user.ReferralCount,
	})
}
