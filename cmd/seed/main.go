package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"resortbooking/internal/database"
	"resortbooking/internal/domain"
	"resortbooking/internal/repository"
)

// Seeds a development database with an admin, a couple of customers
// and an approved partner running two resorts. Passwords are printed
// so the dataset is usable straight away.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	for _, table := range []string{
		"booking_time_slots", "withdraws", "invoices", "booking_details",
		"bookings", "offers", "rooms", "room_types", "resorts",
		"partners", "customers", "accounts",
	} {
		db.Exec("DELETE FROM " + table)
	}

	ctx := context.Background()
	accounts := repository.NewAccountRepository(db)
	resorts := repository.NewResortRepository(db)
	rooms := repository.NewRoomRepository(db)

	log.Println("Creating accounts...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err := accounts.CreateAccount(ctx, &domain.Account{
		Email:        "admin@resortbooking.local",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Status:       domain.AccountActive,
	}); err != nil {
		log.Fatal("admin create failed:", err)
	}
	log.Println("Admin created: admin@resortbooking.local / admin123")

	customerHash, _ := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
	for i, email := range []string{"linh@example.com", "minh@example.com"} {
		customer := &domain.Customer{
			FullName: fmt.Sprintf("Customer %d", i+1),
			Phone:    fmt.Sprintf("+84 90 123 45%02d", i+10),
		}
		err := accounts.CreateCustomerAccount(ctx, &domain.Account{
			Email:        email,
			PasswordHash: string(customerHash),
			Role:         domain.RoleCustomer,
			Status:       domain.AccountActive,
		}, customer)
		if err != nil {
			log.Fatal("customer create failed:", err)
		}
		log.Printf("Customer created: %s / customer123", email)
	}

	partnerHash, _ := bcrypt.GenerateFromPassword([]byte("partner123"), bcrypt.DefaultCost)
	owner := &domain.Partner{
		Name:    "Coastal Resorts Ltd",
		Address: "12 Tran Phu, Nha Trang",
		Phone:   "+84 258 382 0000",
		Status:  domain.PartnerApproved,
	}
	err = accounts.CreatePartnerAccount(ctx, &domain.Account{
		Email:        "partner@coastal.example.com",
		PasswordHash: string(partnerHash),
		Role:         domain.RolePartner,
		Status:       domain.AccountActive,
	}, owner)
	if err != nil {
		log.Fatal("partner create failed:", err)
	}
	log.Println("Partner created: partner@coastal.example.com / partner123")

	log.Println("Creating resorts...")
	type roomTypeSeed struct {
		name   string
		price  int64
		people int
		beds   int
		rooms  int
		offers map[string]int64 // name -> cost, 0 means base price
	}
	resortSeeds := []struct {
		name      string
		address   string
		roomTypes []roomTypeSeed
	}{
		{
			name:    "Sunrise Bay Resort",
			address: "Bai Dai Beach, Cam Ranh",
			roomTypes: []roomTypeSeed{
				{name: "Deluxe Garden", price: 1_200_000, people: 2, beds: 1, rooms: 8,
					offers: map[string]int64{"Standard": 0, "Early bird": 990_000}},
				{name: "Family Suite", price: 2_500_000, people: 4, beds: 2, rooms: 4,
					offers: map[string]int64{"Standard": 0}},
			},
		},
		{
			name:    "Palm Cove Villas",
			address: "Long Beach, Phu Quoc",
			roomTypes: []roomTypeSeed{
				{name: "Beachfront Villa", price: 4_000_000, people: 6, beds: 3, rooms: 3,
					offers: map[string]int64{"Standard": 0, "Weekend deal": 3_500_000}},
			},
		},
	}

	for _, rs := range resortSeeds {
		resort := &domain.Resort{PartnerID: owner.ID, Name: rs.name, Address: rs.address}
		if err := resorts.Create(ctx, resort); err != nil {
			log.Fatal("resort create failed:", err)
		}

		for _, rts := range rs.roomTypes {
			rt := &domain.RoomType{
				ResortID:     resort.ID,
				Name:         rts.name,
				Price:        rts.price,
				PeopleAmount: rts.people,
				BedAmount:    rts.beds,
			}
			if err := rooms.CreateRoomType(ctx, rt); err != nil {
				log.Fatal("room type create failed:", err)
			}

			for i := 0; i < rts.rooms; i++ {
				room := &domain.Room{RoomTypeID: rt.ID, Number: fmt.Sprintf("%d", 101+i)}
				if err := rooms.CreateRoom(ctx, room); err != nil {
					log.Fatal("room create failed:", err)
				}
			}

			for name, cost := range rts.offers {
				offer := &domain.Offer{RoomTypeID: rt.ID, Name: name}
				if cost > 0 {
					c := cost
					offer.Cost = &c
				}
				if err := rooms.CreateOffer(ctx, offer); err != nil {
					log.Fatal("offer create failed:", err)
				}
			}
		}
		log.Printf("Resort created: %s", rs.name)
	}

	log.Println("Seed complete")
}
