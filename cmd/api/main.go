package main

import (
	"context"
	"net/http"
	"os"

	"shopagent/pkg/api/buyplans"
	"shopagent/pkg/api/caches"
	"shopagent/pkg/api/comparisons"
	"shopagent/pkg/api/orchestrate"
	"shopagent/pkg/api/prices"
	"shopagent/pkg/api/products"
	"shopagent/pkg/api/reviews"
	"shopagent/pkg/core/agent"
	"shopagent/pkg/core/buyplan"
	"shopagent/pkg/core/cache"
	"shopagent/pkg/core/catalog"
	"shopagent/pkg/core/compare"
	"shopagent/pkg/core/config"
	"shopagent/pkg/core/intent"
	"shopagent/pkg/core/orchestrator"
	"shopagent/pkg/core/price"
	"shopagent/pkg/core/review"
	"shopagent/pkg/core/search"
	"shopagent/pkg/core/vector"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

func main() {
	godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	env := config.FromEnv()
	ctx := context.Background()

	// Agent -> provider routing from config/models.yaml; missing file means
	// every agent uses the global default (Ollama).
	var agentCfg agent.Config
	if data, err := os.ReadFile("config/models.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &agentCfg); err != nil {
			log.Warn("failed to parse config/models.yaml, using defaults", zap.Error(err))
		}
	} else {
		log.Info("config/models.yaml not found, using default provider for all agents")
	}
	manager := agent.NewManager(agentCfg, env, log)

	pool, err := catalog.NewPool(ctx, env.DatabaseURL)
	if err != nil {
		log.Fatal("catalog pool init failed", zap.Error(err))
	}
	defer pool.Close()
	store := catalog.NewRepo(pool, log)

	index := vector.NewClient(env.VectorIndexURL, log)

	cacheSet := cache.NewMemorySet()
	if env.RedisURL != "" {
		redisSet, err := cache.NewRedisSet(env.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, using in-memory caches", zap.Error(err))
		} else {
			cacheSet = redisSet
			log.Info("agent caches backed by redis")
		}
	}

	parser := intent.NewParser(manager.Provider(agent.TypeSearch), log)
	ranker := search.NewRanker(store, index, parser, manager.Provider(agent.TypeSearch), log)
	reviewer := review.NewAnalyzer(store, cacheSet.Review, manager.Provider(agent.TypeReview), log)
	pricer := price.NewAnalyzer(store, cacheSet.Price, manager.Provider(agent.TypePrice), log)
	comparator := compare.NewComparator(store, cacheSet.Comparison, manager.Provider(agent.TypeCompare), log)
	optimizer := buyplan.NewOptimizer(store, manager.Provider(agent.TypeBuyPlan), log)

	orch := orchestrator.New(ranker, reviewer, pricer, comparator, optimizer, manager.ModelName(), log)

	origins := env.CORSOrigins
	orchestrateHandler := orchestrate.NewHandler(orch, origins, log)
	productsHandler := products.NewHandler(ranker, store, origins, log)
	reviewsHandler := reviews.NewHandler(reviewer, origins, log)
	pricesHandler := prices.NewHandler(pricer, origins, log)
	comparisonsHandler := comparisons.NewHandler(comparator, ranker, origins, log)
	buyplansHandler := buyplans.NewHandler(optimizer, origins, log)
	cachesHandler := caches.NewHandler(cacheSet, origins, log)

	http.HandleFunc("/api/orchestrate", orchestrateHandler.HandleFull)
	http.HandleFunc("/api/orchestrate/simple", orchestrateHandler.HandleSimple)
	http.HandleFunc("/api/products/search", productsHandler.HandleSearch)
	http.HandleFunc("/api/products/detail", productsHandler.HandleDetail)
	http.HandleFunc("/api/reviews/analyze", reviewsHandler.HandleAnalyze)
	http.HandleFunc("/api/prices/track", pricesHandler.HandleTrack)
	http.HandleFunc("/api/prices/deals", pricesHandler.HandleDeals)
	http.HandleFunc("/api/prices/flash-deals", pricesHandler.HandleFlashDeals)
	http.HandleFunc("/api/comparisons/compare", comparisonsHandler.HandleCompare)
	http.HandleFunc("/api/comparisons/search", comparisonsHandler.HandleSearchCompare)
	http.HandleFunc("/api/buyplan/create", buyplansHandler.HandleCreate)
	http.HandleFunc("/api/cache/clear", cachesHandler.HandleClear)
	http.Handle("/metrics", promhttp.Handler())

	log.Info("API server starting",
		zap.String("addr", env.APIAddr),
		zap.String("llm_model", manager.ModelName()),
		zap.String("active_provider", manager.ActiveProvider()))
	if err := http.ListenAndServe(env.APIAddr, nil); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
