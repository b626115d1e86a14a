// Command keygen prints a fresh signing key in the format QR_SIGNING_KEYS
// expects, so operators can mint rotation keys without extra tooling.
package main

import (
	"flag"
	"fmt"
	"log"

	"ezpay/internal/utils"
)

func main() {
	id := flag.String("id", "key-1", "key identifier to pair with the material")
	flag.Parse()

	key, err := utils.GenerateSecureKey()
	if err != nil {
		log.Fatalf("failed to generate key: %v", err)
	}
	fmt.Printf("%s=%s\n", *id, key)
}
