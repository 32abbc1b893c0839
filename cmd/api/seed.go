package main

import (
	"github.com/maxiG180/trimminflow/internal/infra/memory"
	"github.com/maxiG180/trimminflow/internal/models"
)

// seedDemo loads one shop for the in-memory backend so the API is usable locally.
func seedDemo(dir *memory.Directory) {
	dir.PutBarbershop(models.Barbershop{
		ID:                1,
		Name:              "Demo Barbershop",
		Slug:              "demo",
		Timezone:          "Europe/Lisbon",
		MinAdvanceMinutes: 120,
	})

	dir.PutBarber(models.Barber{ID: 1, BarbershopID: 1, Name: "Joao", Active: true})
	dir.PutBarber(models.Barber{ID: 2, BarbershopID: 1, Name: "Pedro", Active: true})

	dir.PutService(models.Service{ID: 1, BarbershopID: 1, Name: "Haircut", DurationMinutes: 30, Price: 15, Active: true})
	dir.PutService(models.Service{ID: 2, BarbershopID: 1, Name: "Beard", DurationMinutes: 45, Price: 10, Active: true})

	for wd := 1; wd <= 6; wd++ {
		dir.PutHours(models.WorkingHours{BarbershopID: 1, Weekday: wd, IsOpen: true, OpenTime: "09:00", CloseTime: "19:00"})
	}
	dir.PutHours(models.WorkingHours{BarbershopID: 1, Weekday: 0, IsOpen: false})

	// Pedro leaves early on Saturdays.
	pedro := uint(2)
	dir.PutHours(models.WorkingHours{BarbershopID: 1, BarberID: &pedro, Weekday: 6, IsOpen: true, OpenTime: "09:00", CloseTime: "13:00"})
}
