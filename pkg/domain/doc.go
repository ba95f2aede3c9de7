/*
Package domain contains the shared vocabulary of a listenbot session.

It defines the closed sets exchanged between the classifiers, the session tracker,
the conversation controller and the external response engine. This package is kept
pure and free of I/O so every other package can depend on it.

# Key Entities

  - Topic: the subject of the current exchange (GREET, PRICE, LOCATION, RESULT).
  - Feedback: the classification of a user reply (ASK, POSITIVE, NEGATIVE, UNCLEAR).
  - Action: a robot-side scripted intent (INTRO, redeem attempts, ANSWER, REPEAT, STOP).
  - Result: a session outcome tag (CONTACT, APPOINT).
  - Command: the three-token wire format "<ROLE> <TOPIC> <SUBCOMMAND>".
*/
package domain
