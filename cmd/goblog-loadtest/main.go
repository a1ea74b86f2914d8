// Command goblog-loadtest drives concurrent session lookups and likes
// against a redis-backed engine and checks that no like is lost.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/internal/stores"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type account struct {
	user  *goBlog.User
	token string
}

func main() {
	var (
		users       = flag.Int("users", 200, "number of accounts to seed")
		posts       = flag.Int("posts", 50, "number of posts to seed")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 20000, "operations per phase (session + like)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "loadtest", "redis key prefix")
	)
	flag.Parse()

	if *users < 2 || *posts <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users must be >= 2; posts, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	engine, err := buildEngine(stores.New(client, *prefix))
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	fmt.Printf("seeding %d users and %d posts...\n", *users, *posts)
	startSeed := time.Now()
	accounts, postIDs, err := seed(ctx, engine, *users, *posts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	sessionStats := runPhase(*ops, *concurrency, 7919, func(r *mrand.Rand) error {
		a := accounts[r.Intn(len(accounts))]
		u, err := engine.UserFromSession(ctx, a.token)
		if err == nil && u.ID != a.user.ID {
			return fmt.Errorf("session for %d resolved to %d", a.user.ID, u.ID)
		}
		return err
	})

	// accounts[0] owns every post, so everyone else may like them.
	var liked atomic.Int64
	likeStats := runPhase(*ops, *concurrency, 6151, func(r *mrand.Rand) error {
		a := accounts[1+r.Intn(len(accounts)-1)]
		if _, err := engine.LikePost(ctx, a.user, postIDs[r.Intn(len(postIDs))]); err != nil {
			return err
		}
		liked.Add(1)
		return nil
	})

	total, err := countLikes(ctx, engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "count likes: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("---- results ----")
	printStats("session", sessionStats)
	printStats("like", likeStats)
	fmt.Printf("likes: accepted=%d stored=%d\n", liked.Load(), total)
	if total != liked.Load() {
		fmt.Fprintln(os.Stderr, "stored like count does not match accepted likes")
		os.Exit(1)
	}
}

func buildEngine(store *stores.Store) (*goBlog.Engine, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	cfg := goBlog.DefaultConfig()
	cfg.Session.Secret = secret
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return goBlog.New().WithConfig(cfg).WithStores(store).Build()
}

func seed(ctx context.Context, engine *goBlog.Engine, users, posts int) ([]account, []int64, error) {
	accounts := make([]account, users)
	for i := range accounts {
		u, err := engine.Register(ctx, fmt.Sprintf("user_%d", i), "loadtest", "")
		if err != nil {
			return nil, nil, err
		}
		token, err := engine.IssueSession(u)
		if err != nil {
			return nil, nil, err
		}
		accounts[i] = account{user: u, token: token}
	}

	ids := make([]int64, posts)
	for i := range ids {
		p, err := engine.CreatePost(ctx, accounts[0].user, fmt.Sprintf("post %d", i), "seeded by goblog-loadtest")
		if err != nil {
			return nil, nil, err
		}
		ids[i] = p.ID
	}
	return accounts, ids, nil
}

func countLikes(ctx context.Context, engine *goBlog.Engine) (int64, error) {
	list, err := engine.ListPosts(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, p := range list {
		total += p.Likes
	}
	return total, nil
}

func runPhase(ops, concurrency int, seedStep int64, op func(r *mrand.Rand) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := mrand.New(mrand.NewSource(time.Now().UnixNano() + int64(worker)*seedStep))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
