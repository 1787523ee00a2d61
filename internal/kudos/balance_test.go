package kudos_test

import (
	"sync"
	"testing"

	"github.com/hugh/kudosboard/internal/database/models"
	"github.com/hugh/kudosboard/internal/kudos"
	"github.com/hugh/kudosboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrySpend(t *testing.T) {
	t.Run("decrements the balance and returns the remainder", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)

		org := testutil.CreateTestOrg(t, db)
		user := testutil.CreateTestUser(t, db, org)

		balance, err := kudos.TrySpend(db, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, balance)
	})

	t.Run("fails at zero balance without going negative", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)

		org := testutil.CreateTestOrg(t, db)
		user := testutil.CreateTestUser(t, db, org)

		for i := 0; i < models.DefaultKudosAllowance; i++ {
			_, err := kudos.TrySpend(db, user.ID)
			require.NoError(t, err)
		}

		_, err := kudos.TrySpend(db, user.ID)
		assert.Equal(t, kudos.ErrInsufficientBalance, err)

		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.Equal(t, 0, stored.KudosAvailable)
	})

	t.Run("unknown user reports insufficient balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)

		org := testutil.CreateTestOrg(t, db)
		user := testutil.CreateTestUser(t, db, org)
		require.NoError(t, db.Unscoped().Delete(&models.User{}, "id = ?", user.ID).Error)

		_, err := kudos.TrySpend(db, user.ID)
		assert.Equal(t, kudos.ErrInsufficientBalance, err)
	})

	t.Run("concurrent spends never exceed the balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)

		org := testutil.CreateTestOrg(t, db)
		user := testutil.CreateTestUser(t, db, org)

		const attempts = 10
		var wg sync.WaitGroup
		errs := make(chan error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := kudos.TrySpend(db, user.ID)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		successes := 0
		for err := range errs {
			if err == nil {
				successes++
			} else {
				assert.Equal(t, kudos.ErrInsufficientBalance, err)
			}
		}
		assert.Equal(t, models.DefaultKudosAllowance, successes)

		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.Equal(t, 0, stored.KudosAvailable)
	})
}
