package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/blinkreg/internal/compression"
	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/server/middlewares"
	"github.com/mdouchement/blinkreg/internal/service"
	"github.com/sirupsen/logrus"
)

// A Controller is an Iversion Of Control pattern used to init the server package.
type Controller struct {
	Version  string
	Database database.Client
	Logger   logrus.FieldLogger
	// Clock is the ledger time source, time.Now when nil.
	Clock func() time.Time
	// Signature params
	MaxClockSkew time.Duration
	// Blink params
	StrictTypes bool
	Mints       service.MintVerifier
	// Compression params
	StrictReplace   bool
	DefaultMaxDepth uint32
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl Controller) *echo.Echo {
	if ctrl.Logger == nil {
		ctrl.Logger = logrus.StandardLogger()
	}
	if ctrl.Clock == nil {
		ctrl.Clock = time.Now
	}

	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
		Output: ctrl.Logger.WithField("component", "http").WriterLevel(logrus.InfoLevel),
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler(ctrl.Logger)

	////////////
	// Router //
	////////////

	program := compression.New(compression.Config{
		StrictReplace: ctrl.StrictReplace,
		Clock:         ctrl.Clock,
		Logger:        ctrl.Logger.WithField("program", "compression"),
	})
	cfg := service.Config{
		StrictTypes: ctrl.StrictTypes,
		Mints:       ctrl.Mints,
		Compression: program,
		Clock:       ctrl.Clock,
		Logger:      ctrl.Logger,
	}

	router := engine.Group("")
	// Route level only, a Use on an empty prefix group would catch unknown routes.
	sign := middlewares.Signature(ctrl.MaxClockSkew, ctrl.Clock)

	// generic handlers
	//
	version := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	}
	router.GET("/", version)
	router.GET("/version", version)

	//
	// blink handlers
	//
	blink := &blink{
		registry: service.NewBlinkRegistry(ctrl.Database, cfg),
	}
	router.GET("/blinks", blink.List)
	router.GET("/blinks/:address", blink.Show)
	router.POST("/blinks", blink.Create, sign)
	router.PATCH("/blinks/:address", blink.Update, sign)
	router.DELETE("/blinks/:address", blink.Delete, sign)

	//
	// tree handlers
	//
	tree := &tree{
		trees: service.NewTreeService(ctrl.Database, program, ctrl.DefaultMaxDepth, ctrl.Logger),
	}
	router.GET("/trees/:address", tree.Show)
	router.GET("/trees/:address/proof/:index", tree.Proof)
	router.GET("/trees/:address/changelog", tree.ChangeLog)
	router.POST("/trees", tree.Create, sign)

	//
	// compressed nft handlers
	//
	cnft := &cnft{
		registry: service.NewCompressedNftRegistry(ctrl.Database, cfg),
	}
	router.GET("/cnfts", cnft.List)
	router.GET("/cnfts/:address", cnft.Show)
	router.POST("/cnfts", cnft.Create, sign)
	router.POST("/cnfts/:address/transfer", cnft.Transfer, sign)
	router.DELETE("/cnfts/:address", cnft.Burn, sign)

	//
	// wallet handlers
	//
	wallet := &wallet{
		db: ctrl.Database,
	}
	router.GET("/wallets/:address", wallet.Show)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentSigner(c echo.Context) string {
	signer, ok := c.Get(middlewares.CurrentSignerContextKey).(string)
	if ok {
		return signer
	}
	return ""
}
