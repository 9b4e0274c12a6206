package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/tokenworks/servicepos-app/models"
)

// Event types
const (
	EventTokenUpdate     = "token_update"
	EventTokenDelete     = "token_delete"
	EventEntryUpdate     = "entry_update"
	EventEntryDelete     = "entry_delete"
	EventUserUpdate      = "user_update"
	EventStaffNotif      = "staff_notification"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client dashboard (manager, employee) dan channel untuk broadcast
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastTokenUpdate -> menyiarkan token baru/berubah ke semua client
func BroadcastTokenUpdate(token models.Token) {
	broadcast(Message{
		Event: EventTokenUpdate,
		Data:  token,
	})
}

// BroadcastTokenDelete -> notifikasi token dihapus dari backend
func BroadcastTokenDelete(recordID int64) {
	broadcast(Message{
		Event: EventTokenDelete,
		Data:  map[string]interface{}{"id": recordID},
	})
}

// BroadcastEntryUpdate -> menyiarkan entry baru ke semua client
func BroadcastEntryUpdate(entry models.FormEntry) {
	broadcast(Message{
		Event: EventEntryUpdate,
		Data:  entry,
	})
}

// BroadcastEntryDelete -> notifikasi entry dihapus manager
func BroadcastEntryDelete(recordID int64) {
	broadcast(Message{
		Event: EventEntryDelete,
		Data:  map[string]interface{}{"id": recordID},
	})
}

// BroadcastUserUpdate -> perubahan daftar user (tambah/nonaktif employee)
func BroadcastUserUpdate(user models.User) {
	broadcast(Message{
		Event: EventUserUpdate,
		Data:  user,
	})
}

// BroadcastStaffNotification -> notifikasi teks untuk operator
func BroadcastStaffNotification(message string) {
	broadcast(Message{
		Event: EventStaffNotif,
		Data:  message,
	})
}

// BroadcastDashboardUpdate -> update angka dashboard
func BroadcastDashboardUpdate(data interface{}) {
	broadcast(Message{
		Event: EventDashboardUpdate,
		Data:  data,
	})
}

// broadcast -> fungsi internal untuk mengirim pesan
func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
