// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Runtime is filled by Startup and read by BuildHandler and Shutdown.
// It is a pointer so every hook sees the same instance even though WAFFLE
// passes DBDeps by value.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Redis         *redis.Client // nil when redis_addr is blank

	Runtime *Runtime
}
