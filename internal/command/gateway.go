// Flight-control gateway stub. Command dispatch to physical drones is a
// collaborator boundary; this implementation simulates link state and
// command acceptance without a real flight-control protocol.
package command

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"fleetops-server/internal/model"
)

// Standard command identifiers, named after the MAVLink commands the real
// gateway would dispatch.
const (
	CmdMissionStart   = "MAV_CMD_MISSION_START"
	CmdPauseContinue  = "MAV_CMD_DO_PAUSE_CONTINUE"
	CmdReturnToLaunch = "MAV_CMD_NAV_RETURN_TO_LAUNCH"
	CmdArmDisarm      = "MAV_CMD_COMPONENT_ARM_DISARM"
)

// commandSuccessRate models the flaky acceptance of a real link.
const commandSuccessRate = 0.9

// connection tracks one simulated drone link.
type connection struct {
	id            string
	lastHeartbeat time.Time
}

// Gateway manages simulated drone links and command dispatch.
type Gateway struct {
	mu          sync.Mutex
	connections map[string]*connection
	rand        *rand.Rand
}

// NewGateway returns an empty gateway.
func NewGateway() *Gateway {
	return &Gateway{
		connections: make(map[string]*connection),
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Connect establishes a simulated link to a drone.
func (g *Gateway) Connect(droneID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.connections[droneID] = &connection{id: droneID, lastHeartbeat: time.Now()}
}

// Disconnect drops the link.
func (g *Gateway) Disconnect(droneID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, droneID)
}

// IsConnected reports whether a link to the drone exists.
func (g *Gateway) IsConnected(droneID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.connections[droneID]
	return ok
}

// ConnectedDrones lists drones with a live link.
func (g *Gateway) ConnectedDrones() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, 0, len(g.connections))
	for id := range g.connections {
		ids = append(ids, id)
	}
	return ids
}

// SendCommand dispatches one command to a connected drone. The simulated
// link accepts most commands and occasionally reports a refusal.
func (g *Gateway) SendCommand(droneID, cmd string, params ...float64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	conn, ok := g.connections[droneID]
	if !ok {
		return false, fmt.Errorf("drone %s not connected", droneID)
	}
	conn.lastHeartbeat = time.Now()
	return g.rand.Float64() < commandSuccessRate, nil
}

// UploadMission pushes a waypoint list to a connected drone.
func (g *Gateway) UploadMission(droneID string, waypoints []model.Waypoint) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	conn, ok := g.connections[droneID]
	if !ok {
		return fmt.Errorf("drone %s not connected", droneID)
	}
	if len(waypoints) < 2 {
		return fmt.Errorf("mission upload requires at least 2 waypoints, got %d", len(waypoints))
	}
	conn.lastHeartbeat = time.Now()
	return nil
}

// StartMission begins execution of the uploaded mission.
func (g *Gateway) StartMission(droneID string) (bool, error) {
	return g.SendCommand(droneID, CmdMissionStart)
}

// PauseMission suspends the running mission.
func (g *Gateway) PauseMission(droneID string) (bool, error) {
	return g.SendCommand(droneID, CmdPauseContinue, 0)
}

// ResumeMission continues a paused mission.
func (g *Gateway) ResumeMission(droneID string) (bool, error) {
	return g.SendCommand(droneID, CmdPauseContinue, 1)
}

// ReturnToLaunch aborts the mission and recalls the drone.
func (g *Gateway) ReturnToLaunch(droneID string) (bool, error) {
	return g.SendCommand(droneID, CmdReturnToLaunch)
}

// Arm spins up the drone's motors.
func (g *Gateway) Arm(droneID string) (bool, error) {
	return g.SendCommand(droneID, CmdArmDisarm, 1)
}

// Disarm stops the drone's motors.
func (g *Gateway) Disarm(droneID string) (bool, error) {
	return g.SendCommand(droneID, CmdArmDisarm, 0)
}
