package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/netts-ev/netts-backend/internal/apperr"
	"github.com/netts-ev/netts-backend/internal/booking"
	"github.com/netts-ev/netts-backend/internal/identity"
)

const recentBookingsLimit = 5

// RegisterAdminRoutes wires the reporting endpoints under /admin. They
// are data projections over the user and booking repositories.
func RegisterAdminRoutes(app *fiber.App, users identity.Repository, bookings booking.Repository) {
	admin := app.Group("/admin")

	admin.Get("/users", func(c *fiber.Ctx) error {
		all, err := users.List(c.UserContext())
		if err != nil {
			return apperr.Store(err)
		}
		formatted := make([]fiber.Map, 0, len(all))
		for _, u := range all {
			formatted = append(formatted, fiber.Map{
				"name":             u.FirstName + " " + u.LastName,
				"email":            u.Email,
				"phone":            u.Phone,
				"location":         fmt.Sprintf("%s, %s - %s", u.City, u.State, u.Pincode),
				"referralCode":     u.RefID,
				"coinBalance":      u.Coins,
				"registrationDate": u.CreatedAt,
			})
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"users": formatted})
	})

	admin.Get("/bookings", func(c *fiber.Ctx) error {
		all, err := bookings.ListAll(c.UserContext())
		if err != nil {
			return apperr.Store(err)
		}
		formatted := make([]fiber.Map, 0, len(all))
		for _, b := range all {
			formatted = append(formatted, fiber.Map{
				"bookingId":    b.ID,
				"manufacturer": b.Manufacturer,
				"model":        b.Model,
				"battery":      b.Battery,
				"user":         fmt.Sprintf("%s %s (%s)", b.UserFirstName, b.UserLastName, b.UserEmail),
				"date":         b.CreatedAt,
			})
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"bookings": formatted})
	})

	admin.Get("/dashboard", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		now := time.Now()
		startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		totalUsers, err := users.Count(ctx)
		if err != nil {
			return apperr.Store(err)
		}
		totalBookings, err := bookings.Count(ctx)
		if err != nil {
			return apperr.Store(err)
		}
		newUsersToday, err := users.CountCreatedSince(ctx, startOfToday)
		if err != nil {
			return apperr.Store(err)
		}
		newBookingsToday, err := bookings.CountCreatedSince(ctx, startOfToday)
		if err != nil {
			return apperr.Store(err)
		}
		recent, err := bookings.ListRecent(ctx, recentBookingsLimit)
		if err != nil {
			return apperr.Store(err)
		}

		recentFormatted := make([]fiber.Map, 0, len(recent))
		for _, b := range recent {
			recentFormatted = append(recentFormatted, fiber.Map{
				"bookingId":    b.ID,
				"manufacturer": b.Manufacturer,
				"model":        b.Model,
				"battery":      b.Battery,
				"user": fiber.Map{
					"firstName": b.UserFirstName,
					"lastName":  b.UserLastName,
					"email":     b.UserEmail,
				},
				"date": b.CreatedAt,
			})
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"totalUsers":       totalUsers,
			"totalBookings":    totalBookings,
			"newUsersToday":    newUsersToday,
			"newBookingsToday": newBookingsToday,
			"recentBookings":   recentFormatted,
		})
	})
}
