// genkey/main.go
//
// Prints a fresh access key with its lookup digest and stored hash, for
// manually provisioning a seat:
//
//	go run ./scripts/genkey.go

package main

import (
	"fmt"
	"log"

	"github.com/Wolfof420Street/Employee-Tracker/internal/auth"
)

func main() {
	key, err := auth.NewAccessKey()
	if err != nil {
		log.Fatal(err)
	}
	phc, err := auth.HashKey(key, auth.DefaultParams())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("access_key:", key)
	fmt.Println("digest:    ", auth.KeyDigest(key))
	fmt.Println("phc:       ", phc)
}
