package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// insecureDevSecret signs tokens when JWT_SECRET is unset. Never rely on it
// outside local development.
const insecureDevSecret = "smartfit-dev-secret"

var (
	MongoURI       string
	Port           string
	DBName         string
	JWTSecret      string
	AWSRegion      string
	AWSBucketName  string
	SendGridAPIKey string
	SenderName     string
	SenderEmail    string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	// Empty MongoURI selects the in-memory store.
	MongoURI = os.Getenv("MONGODB_URI")

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	DBName = os.Getenv("DB_NAME")
	if DBName == "" {
		DBName = "smartfit"
	}

	JWTSecret = os.Getenv("JWT_SECRET")
	if JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is not set, falling back to the built-in development secret")
		JWTSecret = insecureDevSecret
	}

	AWSRegion = os.Getenv("AWS_REGION")
	if AWSRegion == "" {
		AWSRegion = "ap-south-1"
	}
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	SenderName = os.Getenv("SENDER_NAME")
	if SenderName == "" {
		SenderName = "SmartFit"
	}
	SenderEmail = os.Getenv("SENDER_EMAIL")
	if SenderEmail == "" {
		SenderEmail = "no-reply@smartfit.app"
	}
}
