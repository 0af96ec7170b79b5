// File: cmd/wizardserver/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/api"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/backendclient"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/config"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/fields"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/orchestrator"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/sessionstore"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/wizard"
)

const configFilePath = "config.json"

func main() {
	appConfig, err := config.Load(configFilePath)
	if err != nil {
		log.Printf("Main: Notice during config.Load: %v. Application will proceed with available/defaulted config.", err)
	}
	if appConfig == nil {
		log.Fatalf("CRITICAL: Configuration could not be loaded by config.Load, and no defaults were returned. Exiting.")
	}

	// --- API Key Configuration ---
	loadedAPIKeyFromFile := appConfig.Server.APIKey
	apiKeyFromEnv := os.Getenv("MAIP_API_KEY")
	if apiKeyFromEnv != "" {
		appConfig.Server.APIKey = apiKeyFromEnv
		log.Printf("API Key: Using value from MAIP_API_KEY environment variable (length: %d).", len(appConfig.Server.APIKey))
	} else {
		if loadedAPIKeyFromFile == "" {
			log.Printf("API Key: Empty in config.json and no ENV override. Using system default placeholder.")
			appConfig.Server.APIKey = config.DefaultSystemAPIKeyPlaceholder
		} else {
			appConfig.Server.APIKey = loadedAPIKeyFromFile
		}
	}
	if appConfig.Server.APIKey == config.DefaultSystemAPIKeyPlaceholder {
		log.Println("!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!")
		log.Println("!!! WARNING: API Key is the default system placeholder. INSECURE.   !!!")
		log.Println("!!! Set a unique 'server.apiKey' in 'config.json' or use the        !!!")
		log.Println("!!! MAIP_API_KEY environment variable for production deployments.   !!!")
		log.Println("!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!")
	}

	// --- Port Configuration ---
	if appConfig.Server.Port == "" {
		appConfig.Server.Port = config.DefaultPort
	}
	if portEnv := os.Getenv("MAIP_PORT"); portEnv != "" {
		appConfig.Server.Port = portEnv
		log.Printf("Port: Overridden by MAIP_PORT environment variable: %s", portEnv)
	}

	// --- Generation Backend Configuration ---
	if backendEnv := os.Getenv("MAIP_BACKEND_URL"); backendEnv != "" {
		appConfig.Backend.BaseURL = backendEnv
		log.Printf("Backend: Overridden by MAIP_BACKEND_URL environment variable: %s", backendEnv)
	}
	if backendKeyEnv := os.Getenv("MAIP_BACKEND_API_KEY"); backendKeyEnv != "" {
		appConfig.Backend.APIKey = backendKeyEnv
		log.Printf("Backend: API key from MAIP_BACKEND_API_KEY environment variable (length: %d).", len(backendKeyEnv))
	}

	// --- Session Snapshot Store ---
	var snapshots wizard.SnapshotStore
	sqliteStore, err := sessionstore.OpenSQLite(appConfig.Server.SessionStorePath)
	if err != nil {
		log.Printf("Main: Could not open session store at %s: %v. Falling back to in-memory snapshots; sessions will not survive restarts.",
			appConfig.Server.SessionStorePath, err)
		snapshots = sessionstore.NewMemoryStore()
	} else {
		defer sqliteStore.Close()
		snapshots = sqliteStore
		log.Printf("Main: Session snapshots persisted at %s", appConfig.Server.SessionStorePath)
	}

	// --- Wire Components ---
	backend := backendclient.New(appConfig.Backend)
	sessions := wizard.NewRegistry(snapshots)
	loader := fields.NewLoader(backend)
	orch := orchestrator.New(backend)
	handler := api.NewAPIHandler(appConfig, sessions, loader, orch, backend)

	// --- HTTP Server ---
	router := api.NewRouter(handler)
	serverAddr := ":" + appConfig.Server.Port
	httpServer := &http.Server{
		Handler:      router, Addr: serverAddr,
		WriteTimeout: 30 * time.Second, ReadTimeout: 15 * time.Second, IdleTimeout: 60 * time.Second,
	}

	log.Printf("Starting MAIP campaign wizard server on http://localhost%s (backend: %s)", serverAddr, appConfig.Backend.BaseURL)
	if appConfig.Server.APIKey != "" && appConfig.Server.APIKey != config.DefaultSystemAPIKeyPlaceholder {
		log.Printf("API Key configured (length: %d). Ensure this is adequately secured.", len(appConfig.Server.APIKey))
	} else {
		log.Printf("API Key: Using default placeholder (length: %d). THIS IS INSECURE.", len(config.DefaultSystemAPIKeyPlaceholder))
	}

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP server ListenAndServe failed: %v", err)
	}
}
