package configs

import "os"

func EnvMongoURI() string {
	if uri := os.Getenv("MONGOURI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

func EnvDBName() string {
	if name := os.Getenv("MONGO_DB"); name != "" {
		return name
	}
	return "ishop"
}

func EnvJWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

func EnvPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "5000"
}
