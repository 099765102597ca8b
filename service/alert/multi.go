package alert

import (
	"github.com/kirsrus/patient-monitor/service"
)

// Multi рассылка тревоги сразу в несколько каналов. Имплементирует интерфейс AlertSvc
type Multi []service.AlertSvc

// NewMulti конструктор Multi. Пустые (nil) каналы пропускаются
func NewMulti(senders ...service.AlertSvc) Multi {
	res := make(Multi, 0, len(senders))
	for _, sender := range senders {
		if sender != nil {
			res = append(res, sender)
		}
	}
	return res
}

// Send отправляет сообщение во все каналы по порядку
func (m Multi) Send(message string) {
	for _, sender := range m {
		sender.Send(message)
	}
}
