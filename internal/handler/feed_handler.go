package handler

import (
	"encoding/json"
	"net/http"

	"farmmart/internal/config"
	"farmmart/internal/domain/model"
	"farmmart/internal/feed"
	"farmmart/internal/middleware"
	"farmmart/internal/usecase"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// /ws/feed の注文・審査イベント配信。
// 出品者は自分宛、購入者は自分の注文、管理者と配達員は全件。
type FeedHandler struct {
	hub *feed.Hub
}

// DI
func NewFeedHandler(hub *feed.Hub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

func (h *FeedHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/ws")
	g.Use(middleware.AuthJWT(cfg))
	g.GET("/feed", h.feed)
}

func (h *FeedHandler) feed(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}
	defer conn.Close()

	//書き込みはこのgoroutineに寄せる（gorilla/websocketは並行Writeを許さない）
	events := make(chan feed.Event, 16)

	unsubscribe := h.hub.Subscribe(filterForSession(sess), func(e feed.Event) {
		select {
		case events <- e:
		default:
			//詰まっている購読者は取りこぼす
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return nil
		case e := <-events:
			data, err := json.Marshal(e)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return nil
			}
		}
	}
}

func filterForSession(sess usecase.Session) feed.Filter {
	switch sess.Role {
	case model.RoleSeller:
		return feed.Filter{SellerID: sess.UserID}
	case model.RoleCustomer:
		return feed.Filter{CustomerID: sess.UserID}
	default:
		// ADMIN / DELIVERY は全件
		return feed.Filter{}
	}
}
