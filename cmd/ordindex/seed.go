package main

import (
	"github.com/go-faker/faker/v4"

	"ordindex/store"
)

// seedStoreWithTestRecords sets n random word pairs. Words may repeat, so
// the store can end up with fewer than n keys.
func seedStoreWithTestRecords(s *store.Store, n int) error {
	for i := 0; i < n; i++ {
		k := []byte(faker.Word() + faker.Word())
		v := []byte(faker.Word() + faker.Word())
		if err := s.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
