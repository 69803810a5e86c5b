package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/azimystic/UTS-SMS-sub001/app/config"
	"github.com/azimystic/UTS-SMS-sub001/app/database"
	"github.com/azimystic/UTS-SMS-sub001/app/models"
	"github.com/azimystic/UTS-SMS-sub001/app/routes/auth"
)

func main() {
	firstName := flag.String("first-name", "", "User first name")
	lastName := flag.String("last-name", "", "User last name")
	email := flag.String("email", "", "User email")
	password := flag.String("password", "", "User password")
	role := flag.String("role", "bursar", "Role to assign (admin, bursar)")
	flag.Parse()

	if *email == "" || *password == "" || *firstName == "" {
		log.Fatal("first-name, email and password are required")
	}

	config.InitDB()
	db := config.GetDB()
	if db == nil {
		log.Fatal("Failed to connect to database")
	}
	defer db.Close()

	hashed, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password: ", err)
	}

	user := &models.User{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  hashed,
	}

	if err := database.CreateUser(db, user, *role); err != nil {
		log.Fatal("Error creating user: ", err)
	}

	fmt.Printf("User created successfully: %s %s (%s) with role %s\n",
		user.FirstName, user.LastName, user.Email, *role)
}
