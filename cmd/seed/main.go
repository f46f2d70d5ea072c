// Seeds the database with the default Likert scale, two evaluation forms
// and a few example users and answers. Intended for development only.
package main

import (
	"log"
	"math/rand"

	"gorm.io/gorm"

	"github.com/rcamargo/likert-server/config"
	"github.com/rcamargo/likert-server/models"
	"github.com/rcamargo/likert-server/utils"
)

func main() {
	config.LoadEnv()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Println("Seed concluído com sucesso!")
}

func seed(db *gorm.DB) error {
	hash, err := utils.HashPassword("123456")
	if err != nil {
		return err
	}

	users := []models.User{
		{Name: "João Silva", Email: "joao.silva@empresa.com", Password: hash},
		{Name: "Maria Santos", Email: "maria.santos@empresa.com", Password: hash},
		{Name: "Pedro Oliveira", Email: "pedro.oliveira@empresa.com", Password: hash},
		{Name: "Ana Costa", Email: "ana.costa@empresa.com", Password: hash, IsAdmin: true},
	}

	options := []models.AnswerOption{
		{Value: "1", Label: "Discordo Totalmente", Lifecycle: models.LiveNow()},
		{Value: "2", Label: "Discordo Parcialmente", Lifecycle: models.LiveNow()},
		{Value: "3", Label: "Neutro", Lifecycle: models.LiveNow()},
		{Value: "4", Label: "Concordo Parcialmente", Lifecycle: models.LiveNow()},
		{Value: "5", Label: "Concordo Totalmente", Lifecycle: models.LiveNow()},
	}

	psychological := []string{
		"Sinto-me confortável ao expressar minhas emoções no ambiente de trabalho",
		"Consigo lidar bem com situações de pressão e estresse",
		"Mantenho um equilíbrio saudável entre vida pessoal e profissional",
		"Sinto-me motivado(a) para realizar minhas tarefas diárias",
		"Consigo trabalhar bem em equipe",
	}
	psychosocial := []string{
		"O ambiente de trabalho é seguro e adequado",
		"Existe um bom relacionamento entre colegas de trabalho",
		"Recebo feedback adequado sobre meu desempenho",
		"As demandas de trabalho são razoáveis",
		"Existe respeito e valorização da diversidade no ambiente de trabalho",
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range users {
			if err := tx.Create(&users[i]).Error; err != nil {
				return err
			}
		}
		for i := range options {
			if err := tx.Create(&options[i]).Error; err != nil {
				return err
			}
		}

		q1, err := createQuestions(tx, psychological, options)
		if err != nil {
			return err
		}
		q2, err := createQuestions(tx, psychosocial, options)
		if err != nil {
			return err
		}

		form1, err := createForm(tx, "Avaliação Psicológica",
			"Avaliação do bem-estar psicológico e emocional do colaborador", q1)
		if err != nil {
			return err
		}
		form2, err := createForm(tx, "Avaliação Psicossocial",
			"Avaliação das condições psicossociais do ambiente de trabalho", q2)
		if err != nil {
			return err
		}

		// example answers: João answers form 1, Maria answers form 2
		if err := answerAll(tx, users[0], form1, q1, options); err != nil {
			return err
		}
		return answerAll(tx, users[1], form2, q2, options)
	})
}

func createQuestions(tx *gorm.DB, texts []string, options []models.AnswerOption) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(texts))
	for _, text := range texts {
		q := models.Question{Text: text, Lifecycle: models.LiveNow()}
		if err := tx.Create(&q).Error; err != nil {
			return nil, err
		}
		if err := tx.Model(&q).Association("AnswerOptions").Append(options); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func createForm(tx *gorm.DB, title, description string, questions []models.Question) (models.Form, error) {
	form := models.Form{Title: title, Description: description, IsActive: true, Lifecycle: models.LiveNow()}
	if err := tx.Create(&form).Error; err != nil {
		return form, err
	}
	for i, q := range questions {
		link := models.FormQuestion{
			FormID:     form.ID,
			QuestionID: q.ID,
			Position:   i + 1,
			Lifecycle:  models.LiveNow(),
		}
		if err := tx.Create(&link).Error; err != nil {
			return form, err
		}
	}
	return form, nil
}

func answerAll(tx *gorm.DB, user models.User, form models.Form, questions []models.Question, options []models.AnswerOption) error {
	for _, q := range questions {
		answer := models.Answer{
			UserID:         user.ID,
			FormID:         form.ID,
			QuestionID:     q.ID,
			AnswerOptionID: options[rand.Intn(len(options))].ID,
			Lifecycle:      models.LiveNow(),
		}
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
	}
	return nil
}
