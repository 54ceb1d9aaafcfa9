package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/studycircle/studyroom-api/models"
	"github.com/studycircle/studyroom-api/services"
	v1 "github.com/studycircle/studyroom-api/v1"
	"gorm.io/gorm"
)

func main() {

	// Load the .env file
	err := godotenv.Load()
	if err != nil {
		logrus.WithError(err).Info("no .env file loaded")
	}

	//================================================================================
	// Create the database connection
	//================================================================================

	// Get the database driver for the database string
	dbDriver := ParseDatabaseDriver(os.Getenv("DB_URL"))
	if dbDriver == nil {
		logrus.Fatalln("Failed to create database driver. Check DB_URL environment variable")
	}

	// Create the database connection
	db, err := gorm.Open(dbDriver, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		logrus.WithError(err).Fatalln("failed to connect database")
	}

	// Migrate the schema
	db.AutoMigrate(
		&models.Message{},
		&models.Participant{},
		&models.Room{},
		&models.Subject{},
	)

	//================================================================================
	// Setup the WebSockets server
	//================================================================================

	// Get all of the allowed origins
	allowedOrigins := GetAllowedOrigins()

	// Create the server
	socketIoServer := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&polling.Transport{
				CheckOrigin: checkOrigin(allowedOrigins),
			},
			&websocket.Transport{
				CheckOrigin: checkOrigin(allowedOrigins),
			},
		},
	})
	go socketIoServer.Serve()

	//================================================================================
	// Create all the service instances
	//================================================================================

	roomsService := &services.RoomsService{DB: db}
	subjectsService := &services.SubjectsService{DB: db}
	messagesService := &services.MessagesService{DB: db}
	mediaTokensService := &services.MediaTokensService{
		AppID:     os.Getenv("MEDIA_APP_ID"),
		AppSecret: os.Getenv("MEDIA_APP_SECRET"),
		KeyID:     os.Getenv("MEDIA_KEY_ID"),
	}
	liveKitTokensService := &services.LiveKitTokensService{
		APIKey:    os.Getenv("LIVEKIT_API_KEY"),
		APISecret: os.Getenv("LIVEKIT_API_SECRET"),
	}
	uploadsService := &services.UploadsService{
		BaseURL: os.Getenv("ASSET_HOST_URL"),
		APIKey:  os.Getenv("ASSET_HOST_KEY"),
	}
	socketsService := &services.SocketsService{
		Server:          socketIoServer,
		RoomsService:    roomsService,
		MessagesService: messagesService,
	}

	// Do some final update on the sockets service
	// Needed because it has a circular relationship with other services
	socketsService.Setup()
	roomsService.Events = socketsService
	messagesService.Events = socketsService

	// Seed the subject catalog on first boot
	if err := subjectsService.SeedDefaults(); err != nil {
		logrus.WithError(err).Fatalln("failed to seed subjects")
	}

	//================================================================================
	// Setup the Gin HTTP router
	//================================================================================

	// Create the Gin router
	r := gin.Default()

	// Configure CORS for the API
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = allowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.AddAllowHeaders("Accept", "User-Agent", "Authorization")
	r.Use(cors.New(corsCfg))

	// Create the API instance
	api := &v1.Server{
		RoomsService:         roomsService,
		SubjectsService:      subjectsService,
		MessagesService:      messagesService,
		MediaTokensService:   mediaTokensService,
		LiveKitTokensService: liveKitTokensService,
		UploadsService:       uploadsService,
	}

	// Mount the API routes
	api.Setup(r.Group("v1"))

	// Create a mux to serve both the HTTP and Socket.IO servers
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", socketIoServer)
	mux.Handle("/", r)

	// Run the server
	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "8080"
	}
	logrus.WithField("port", port).Info("server starting")
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logrus.Fatalln(err)
	}

}

// GetAllowedOrigins gets the slice of allowed CORS origins
func GetAllowedOrigins() []string {

	// Get the list of origins allowed
	env, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if !ok {
		return []string{}
	}

	// Create the slice for it
	origins := []string{}

	// Split up the env value
	originsRaw := strings.Split(env, ",")
	for _, originRaw := range originsRaw {
		origin := strings.TrimSpace(originRaw)
		origins = append(origins, origin)
	}

	// Return the origins slice
	return origins

}
