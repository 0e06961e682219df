package scenes

import (
	"image/color"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/pawline/tether-mp/network"
	"github.com/pawline/tether-mp/shared/netconfig"
	"github.com/pawline/tether-mp/systems"
	"github.com/pawline/tether-mp/ui"
)

// SceneChanger allows scenes to trigger transitions
type SceneChanger interface {
	ChangeScene(scene interface{})
}

// MenuScene is the connect screen shown at startup and after a disconnect.
type MenuScene struct {
	sceneChanger SceneChanger
	connectUI    *ui.ConnectUI
	netClient    *network.Client
	once         sync.Once
}

// NewMenuScene creates a new menu scene
func NewMenuScene(sc SceneChanger) *MenuScene {
	return &MenuScene{sceneChanger: sc}
}

func (ms *MenuScene) Update() {
	ms.once.Do(ms.configure)

	ms.connectUI.Update()

	if ms.netClient == nil {
		return
	}

	switch ms.netClient.State() {
	case network.StateJoinedGame:
		client := ms.netClient
		ms.netClient = nil
		ms.sceneChanger.ChangeScene(NewArenaScene(ms.sceneChanger, client))
		return

	case network.StateError:
		errMsg := "Connection failed"
		if err := ms.netClient.LastError(); err != nil {
			errMsg = err.Error()
		}
		ms.connectUI.SetStatus(errMsg)
		ms.connectUI.SetConnecting(false)
		ms.netClient.Disconnect()
		ms.netClient = nil

	case network.StateConnecting:
		ms.connectUI.SetStatus("Connecting...")

	case network.StateConnected:
		ms.connectUI.SetStatus("Connected, joining...")

	case network.StateDisconnected:
		ms.connectUI.SetStatus("Disconnected")
		ms.connectUI.SetConnecting(false)
		ms.netClient = nil
	}
}

func (ms *MenuScene) Draw(screen *ebiten.Image) {
	// Always clear screen to prevent white flashes from OS window background
	screen.Fill(color.Black)

	if ms.connectUI == nil {
		return
	}
	ms.connectUI.UI.Draw(screen)
}

func (ms *MenuScene) configure() {
	ms.connectUI = ui.NewConnectUI(ms.connect)

	if saved, err := systems.LoadSettings(); err == nil && saved != nil {
		ms.connectUI.SetDefaults(saved.PlayerName, saved.ServerAddress)
	}
}

func (ms *MenuScene) connect(name, address string) {
	if ms.netClient != nil {
		return
	}

	saved, err := systems.LoadSettings()
	if err != nil || saved == nil {
		saved = &systems.SavedSettings{}
	}
	saved.PlayerName = name
	saved.ServerAddress = address
	if err := systems.SaveSettings(saved); err != nil {
		log.Println("[menu] failed to save settings:", err)
	}

	ms.connectUI.SetConnecting(true)
	ms.connectUI.SetStatus("Connecting...")

	ms.netClient = network.NewClient()
	ms.netClient.Connect(address, netconfig.ClientVersion, name)
}
