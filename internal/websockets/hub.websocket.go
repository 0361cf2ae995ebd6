package websockets

// Hub serializes client registration and broadcast through a single
// goroutine so the client map never needs a mutex.
type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
}

func (h *Hub) run(manager *Manager) {
	log := manager.log.Function("run")

	for {
		select {
		case client := <-h.register:
			h.clients[client.ID] = client
			log.Info(
				"Client connected",
				"clientID", client.ID,
				"staffName", client.StaffName,
				"totalClients", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Info(
					"Client disconnected",
					"clientID", client.ID,
					"totalClients", len(h.clients),
				)
			}

		case message := <-h.broadcast:
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it rather than stalling the hub.
					delete(h.clients, id)
					close(client.send)
					log.Warn("Dropping slow client", "clientID", id)
				}
			}
		}
	}
}
