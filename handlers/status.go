package handlers

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"canadian-helper/utils"
)

// HandleStatus reports bot health: host resource usage, timer state and
// record counts.
func (h *Handlers) HandleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot
	guildID := i.GuildID

	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	releases, unbans := b.Scheduler.ArmedCounts()
	activePunishments := len(b.Store.ActivePunishments(guildID))
	activeBans := len(b.Store.ActiveTempBans(guildID))

	archived := 0
	if b.Archive != nil {
		if n, err := b.Archive.TotalCount(guildID); err == nil {
			archived = n
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: "Bot status",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion), Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU usage", Value: fmt.Sprintf("%.1f%%", cpuUsage), Inline: true},
			{Name: "🧠 Memory", Value: fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024), Inline: true},
			{Name: "⏱️ Latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "🍁 In Canada", Value: fmt.Sprintf("%d (%d timers)", activePunishments, releases), Inline: true},
			{Name: "🔨 Temp bans", Value: fmt.Sprintf("%d (%d timers)", activeBans, unbans), Inline: true},
			{Name: "🗃️ Archived actions", Value: fmt.Sprintf("%d", archived), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Status as of " + time.Now().Format("15:04"),
		},
	}
	utils.SendEmbedResponse(s, i, embed, true)
}
